package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "test-pepper")
	SetPepperPath(pepperPath)
	_ = os.Remove(pepperPath)

	code := m.Run()
	_ = os.Remove(pepperPath)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	for _, pw := range []string{"1234", "P@ssw0rd!#$%^&*()", strings.Repeat("a", 128), "", "   spaces   ", "пароль🔒"} {
		hash, err := HashPassword(pw)
		require.NoError(t, err)

		// $argon2id$v=19$m=..,t=..,p=..$salt$hash
		parts := strings.Split(hash, "$")
		require.Len(t, parts, 6, hash)
		require.Equal(t, "argon2id", parts[1])
		require.Equal(t, "v=19", parts[2])
		require.Equal(t, "m=19456,t=2,p=1", parts[3])
		require.NotEmpty(t, parts[4])
		require.NotEmpty(t, parts[5])

		require.NoError(t, VerifyPassword(pw, hash), "round trip %q", pw)
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, VerifyPassword("same", a))
	require.NoError(t, VerifyPassword("same", b))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		encoded  string
		want     error
	}{
		{"match", "correct horse", hash, nil},
		{"case differs", "Correct horse", hash, ErrPasswordMismatch},
		{"trailing space", "correct horse ", hash, ErrPasswordMismatch},
		{"empty", "", hash, ErrPasswordMismatch},
		{"not phc", "x", "plaintext", ErrInvalidHash},
		{"other algorithm", "x", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA", ErrInvalidHash},
		{"wrong version", "x", "$argon2id$v=16$m=19456,t=2,p=1$c2FsdA$aGFzaA", ErrInvalidHash},
		{"bad params", "x", "$argon2id$v=19$memory$c2FsdA$aGFzaA", ErrInvalidHash},
		{"bad salt", "x", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA", ErrInvalidHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.password, tt.encoded)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		pw, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, pw, 12)
		for _, c := range pw {
			require.True(t, (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'), "char %q", c)
		}
		require.False(t, seen[pw], "duplicate %s", pw)
		seen[pw] = true
	}
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, IsBcrypt(string(legacy)))

	require.NoError(t, VerifyPassword("1234", string(legacy)))
	require.ErrorIs(t, VerifyPassword("12345", string(legacy)), ErrPasswordMismatch)

	require.ErrorIs(t, VerifyPassword("1234", "$2a$10$tooshort"), ErrInvalidHash)
}

func TestPasswordHasher(t *testing.T) {
	var h PasswordHasher

	encoded, err := h.Hash("s3cret-value")
	require.NoError(t, err)
	require.False(t, IsBcrypt(encoded))

	require.True(t, h.Verify("s3cret-value", encoded))
	require.False(t, h.Verify("s3cret-valuE", encoded))
	require.False(t, h.Verify("s3cret-value", "not-a-hash"))
}

func TestPepperPersistsAcrossReload(t *testing.T) {
	first, err := Pepper()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	hash, err := HashPassword("pepper-check")
	require.NoError(t, err)

	require.NoError(t, ReloadPepper())
	second, err := Pepper()
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NoError(t, VerifyPassword("pepper-check", hash))
}

func TestPepperFromExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte("fixed-pepper\n"), 0600))

	SetPepperPath(path)
	t.Cleanup(func() { SetPepperPath(filepath.Join(os.TempDir(), "test-pepper")) })

	p, err := Pepper()
	require.NoError(t, err)
	require.Equal(t, "fixed-pepper", p)
}
