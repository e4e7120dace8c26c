package mail

import "testing"

func TestAddressString(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"WithName", Address{Addr: "a@example.com", Name: "Ann"}, "Ann <a@example.com>"},
		{"WithoutName", Address{Addr: "a@example.com"}, "a@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAddresses(t *testing.T) {
	addrs := []Address{
		{Addr: "a@example.com", Name: "Ann"},
		{Addr: "b@example.com"},
	}
	want := "Ann <a@example.com>, b@example.com"
	if got := FormatAddresses(addrs); got != want {
		t.Errorf("FormatAddresses = %q, want %q", got, want)
	}

	if got := FormatAddresses(nil); got != "" {
		t.Errorf("FormatAddresses(nil) = %q, want empty", got)
	}
}

func TestIsSettableFlag(t *testing.T) {
	for _, name := range []string{FlagFlagged, FlagAnswered, FlagDeleted, FlagSeen, FlagDraft} {
		if !IsSettableFlag(name) {
			t.Errorf("IsSettableFlag(%q) = false, want true", name)
		}
	}
	for _, name := range []string{FlagRecent, "bogus", "", "Seen"} {
		if IsSettableFlag(name) {
			t.Errorf("IsSettableFlag(%q) = true, want false", name)
		}
	}
}
