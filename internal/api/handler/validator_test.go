package handler

import (
	"strings"
	"testing"

	"github.com/99minutos/account-service/internal/core/domain"
)

func TestValidator_RegisterRequest(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name string
		req  registerRequest
		want []string
	}{
		{
			name: "valid",
			req:  registerRequest{Username: "alice", Email: "a@x.com", Password: "pw1"},
		},
		{
			name: "password at bcrypt limit",
			req:  registerRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", domain.MaxPasswordBytes)},
		},
		{
			name: "missing fields",
			req:  registerRequest{Email: "not-an-email"},
			want: []string{"username is required", "email must be a valid email", "password is required"},
		},
		{
			name: "password over bcrypt limit",
			req:  registerRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", 80)},
			want: []string{"password must be at most 72 bytes"},
		},
		{
			name: "multibyte password over limit",
			req:  registerRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("€", 25)},
			want: []string{"password must be at most 72 bytes"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(&tc.req)
			if len(tc.want) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected validation error")
			}
			for _, want := range tc.want {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("expected %q in %q", want, err.Error())
				}
			}
		})
	}
}

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	type profile struct {
		FirstName string `json:"firstName" validate:"required"`
	}

	err := NewValidator().Validate(&profile{})
	if err == nil || err.Error() != "firstName is required" {
		t.Fatalf("expected JSON field name in error, got %v", err)
	}
}
