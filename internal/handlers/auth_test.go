package handlers

import "testing"

func TestUserClaims(t *testing.T) {
	verified, unverified := true, false

	tests := []struct {
		name      string
		claims    userClaims
		extra     userClaims
		wantOK    bool
		wantEmail string
		wantName  string
	}{
		{
			name:   "missing subject",
			claims: userClaims{Email: "a@ecole.fr"},
		},
		{
			name:      "id token only",
			claims:    userClaims{Sub: "1", Email: "a@ecole.fr", EmailVerified: &verified, Name: "Anne"},
			wantOK:    true,
			wantEmail: "a@ecole.fr",
			wantName:  "Anne",
		},
		{
			name:      "userinfo fills the gaps",
			claims:    userClaims{Sub: "1"},
			extra:     userClaims{Sub: "other", Email: "b@ecole.fr", GivenName: "Bruno"},
			wantOK:    true,
			wantEmail: "b@ecole.fr",
			wantName:  "Bruno",
		},
		{
			name:     "unverified email dropped",
			claims:   userClaims{Sub: "1", Email: "c@ecole.fr", EmailVerified: &unverified, Name: "Chloé"},
			wantOK:   true,
			wantName: "Chloé",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok := tt.claims.merge(tt.extra).user()
			if ok != tt.wantOK {
				t.Fatalf("user() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if user.Sub != tt.claims.Sub {
				t.Errorf("Sub = %q, want %q", user.Sub, tt.claims.Sub)
			}
			if user.Email != tt.wantEmail || user.Name != tt.wantName {
				t.Errorf("user = %+v", user)
			}
		})
	}
}

func TestSafeReturnPath(t *testing.T) {
	tests := map[string]string{
		"":                        "/",
		"/?lang=EN&activity=poem": "/?lang=EN&activity=poem",
		"https://evil.example":    "/",
		"//evil.example/path":     "/",
		"/\\evil.example":         "/",
		"admin":                   "/",
	}
	for in, want := range tests {
		if got := safeReturnPath(in); got != want {
			t.Errorf("safeReturnPath(%q) = %q, want %q", in, got, want)
		}
	}
}
