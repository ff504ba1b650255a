package gate_test

import (
	"testing"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
)

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("commande:validate").Parse()
	if res != "commande" || act != gate.ActionValidate {
		t.Errorf("got %q %q", res, act)
	}

	res, act = gate.Permission("malformed").Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty parse for malformed permission, got %q %q", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	cases := []struct {
		held      gate.Permission
		requested gate.Permission
		want      bool
	}{
		{"*:*", "commande:validate", true},
		{"commande:validate", "commande:validate", true},
		{"commande:*", "commande:ship", true},
		{"commande:*", "correction:create", false},
		{"*:view", "royalty:view", true},
		{"*:view", "royalty:update", false},
		{"commande:create", "commande:cancel", false},
	}
	for _, c := range cases {
		if got := c.held.Matches(c.requested); got != c.want {
			t.Errorf("%s matches %s: got %v want %v", c.held, c.requested, got, c.want)
		}
	}
}

func TestStaticProfile_Wildcard(t *testing.T) {
	p := gate.NewStaticProfile("representant", "*:view", "*:list")
	if !p.HasPermission("commande:view") {
		t.Error("expected view grant on any resource")
	}
	if p.HasPermission("commande:validate") {
		t.Error("read-only profile must not grant lifecycle edges")
	}
}
