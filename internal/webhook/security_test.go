package webhook

import (
	"testing"
)

func TestVerify(t *testing.T) {
	payload := []byte(`{"action":"opened"}`)
	v := NewSecurityValidator(SecurityConfig{Secret: "s3cret"})

	tests := []struct {
		name      string
		signature string
		want      bool
	}{
		{"valid", Sign("s3cret", payload), true},
		{"wrong secret", Sign("other", payload), false},
		{"missing header", "", false},
		{"sha1 prefix", "sha1=" + Sign("s3cret", payload)[len(signaturePrefix):], false},
		{"bad hex", "sha256=zz", false},
		{"truncated", Sign("s3cret", payload)[:20], false},
		{"prefix only", signaturePrefix, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Verify(payload, tt.signature); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("tampered payload", func(t *testing.T) {
		sig := Sign("s3cret", payload)
		if v.Verify([]byte(`{"action":"closed"}`), sig) {
			t.Errorf("signature must not verify a different payload")
		}
	})

	t.Run("empty secret", func(t *testing.T) {
		empty := NewSecurityValidator(SecurityConfig{})
		if empty.Verify(payload, Sign("", payload)) {
			t.Errorf("empty secret must reject every delivery")
		}
	})
}

func TestValidateIPAddress(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{AllowedIPs: []string{"10.0.0.1", "140.82.112.0/20", "not-a-cidr/99"}})

	tests := []struct {
		name    string
		ip      string
		wantErr bool
	}{
		{"exact", "10.0.0.1", false},
		{"cidr", "140.82.115.9", false},
		{"outside cidr", "140.82.128.1", true},
		{"denied", "192.168.1.1", true},
		{"unparseable", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateIPAddress(tt.ip)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIPAddress(%q) error = %v, wantErr %v", tt.ip, err, tt.wantErr)
			}
		})
	}

	t.Run("no allowlist", func(t *testing.T) {
		open := NewSecurityValidator(SecurityConfig{})
		if err := open.ValidateIPAddress("203.0.113.7"); err != nil {
			t.Errorf("expected no restriction, got %v", err)
		}
	})
}

func TestCheckRateLimit(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{})
		for i := 0; i < 100; i++ {
			if err := v.CheckRateLimit("github"); err != nil {
				t.Fatalf("rate limit should be disabled: %v", err)
			}
		}
	})

	t.Run("burst then reject", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{RateLimitPerMin: 20})
		for i := 0; i < 2; i++ {
			if err := v.CheckRateLimit("a"); err != nil {
				t.Fatalf("request %d within burst rejected: %v", i, err)
			}
		}
		if err := v.CheckRateLimit("a"); err == nil {
			t.Errorf("expected rate limit error after burst")
		}
		if err := v.CheckRateLimit("b"); err != nil {
			t.Errorf("sources must be limited independently: %v", err)
		}
	})

	t.Run("small limits still allow one", func(t *testing.T) {
		v := NewSecurityValidator(SecurityConfig{RateLimitPerMin: 3})
		if err := v.CheckRateLimit("a"); err != nil {
			t.Errorf("burst must be at least one: %v", err)
		}
	})
}
