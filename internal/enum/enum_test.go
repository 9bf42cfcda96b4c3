package enum_test

import (
	"testing"

	"github.com/campushub/cafe/internal/enum"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    enum.Role
		wantErr bool
	}{
		{"admin", enum.RoleAdmin, false},
		{"user", enum.RoleUser, false},
		{"Admin", enum.RoleUser, true},
		{"", enum.RoleUser, true},
	}
	for _, tc := range cases {
		got, err := enum.ParseRole(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseRole(%q) error: got %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for _, r := range []enum.Role{enum.RoleUser, enum.RoleAdmin} {
		got, err := enum.ParseRole(r.String())
		if err != nil || got != r {
			t.Errorf("round trip %v: got %v, %v", r, got, err)
		}
	}
}

func TestTabString(t *testing.T) {
	if enum.TabRequests.String() != "Admin Requests" {
		t.Errorf("got %q", enum.TabRequests.String())
	}
	if enum.Tab(42).String() != "Dashboard" {
		t.Errorf("out of range tab: got %q", enum.Tab(42).String())
	}
}
