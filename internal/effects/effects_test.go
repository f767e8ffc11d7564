package effects

import "testing"

func TestKindsAndCosmetic(t *testing.T) {
	tests := []struct {
		e        Effect
		kind     string
		cosmetic bool
	}{
		{Damage{Amount: 3}, "damage", false},
		{Heal{Amount: 3}, "heal", false},
		{Status{Name: "burn"}, "status", false},
		{Knockback{}, "knockback", false},
		{Projectile{Name: "ember"}, "projectile", true},
		{Fx{Name: "miss"}, "fx", true},
		{Spawn{Object: "ice_wall"}, "spawn", false},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := tt.e.Kind(); got != tt.kind {
				t.Errorf("Kind() = %q, want %q", got, tt.kind)
			}
			if got := Cosmetic(tt.e); got != tt.cosmetic {
				t.Errorf("Cosmetic() = %v, want %v", got, tt.cosmetic)
			}
		})
	}
}
