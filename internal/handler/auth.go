package handler

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vrscene/npcseq/internal/net/command"
)

// HashPassword produces the value for console.password_hash.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func HandleLogin(r command.Replier, args []string, deps *Deps) {
	a, ok := r.(command.Authorizer)
	if !ok || a.Authorized() {
		r.Send("already logged in")
		return
	}
	if len(args) != 1 {
		r.Send("usage: login <password>")
		return
	}
	hash := deps.Config.Console.PasswordHash
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(args[0])); err != nil {
		deps.Log.Warn("console login failed", zap.Error(err))
		r.Send("login failed")
		return
	}
	a.Authorize()
	r.Send("logged in")
}
