package user

import (
	"testing"
	"time"
)

func TestMakeVerifyToken(t *testing.T) {
	now := time.Now()
	usr := User{
		ID:        "u-1",
		Name:      "T",
		Username:  "t",
		Email:     "t@test.test",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken, err := MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	// generate an expired token
	dayLate := 4 * 24 * time.Hour
	NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	NowFunc = time.Now // reset

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(tt.usr, tt.token); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenInvalidatedByCredentialChange(t *testing.T) {
	usr := User{ID: "u-1", Username: "t", Email: "t@test.test"}
	_ = usr.SetPassword("pwd")

	token, err := MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	if err := verifyToken(usr, token); err != nil {
		t.Fatalf("verifyToken() on fresh token: %v", err)
	}

	changed := usr
	_ = changed.SetPassword("new-pwd")
	if err := verifyToken(changed, token); err != errInvalidToken {
		t.Errorf("verifyToken() after password change = %v, want %v", err, errInvalidToken)
	}

	loggedIn := usr
	loggedIn.LastLogin = time.Now()
	if err := verifyToken(loggedIn, token); err != errInvalidToken {
		t.Errorf("verifyToken() after login = %v, want %v", err, errInvalidToken)
	}
}
