package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"ELGAMAL_BITS", "ELGAMAL_MAX_ATTEMPTS", "ELGAMAL_MR_ROUNDS", "ELGAMAL_SESSION_MODE", "ELGAMAL_KEY_DIR"} {
		t.Setenv(key, "")
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestKeygenEncryptDecrypt(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile("message.txt", []byte("attack at dawn"), 0o600))

	code, out, errOut := runCLI(t, "keygen", "-bits", "64", "-dir", "keys")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "64-bit modulus")
	assert.FileExists(t, filepath.Join(dir, "keys", "id_elgamal"))
	assert.FileExists(t, filepath.Join(dir, "keys", "id_elgamal.pub"))

	code, out, errOut = runCLI(t, "encrypt", "-dir", "keys", "-in", "message.txt", "-out", "message.enc")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "encrypted 14 bytes")
	assert.Contains(t, errOut, "op_id=", "notices go to stderr")

	code, out, errOut = runCLI(t, "decrypt", "-dir", "keys", "-in", "message.enc", "-out", "message.out")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "decrypted 14 bytes")

	got, err := os.ReadFile("message.out")
	require.NoError(t, err)
	assert.Equal(t, "attack at dawn", string(got))
}

func TestKeygenSuppliedValues(t *testing.T) {
	setup(t)
	code, _, errOut := runCLI(t, "keygen", "-p", "257", "-g", "3", "-x", "5", "-strict")
	require.Equal(t, 0, code, errOut)

	pub, err := os.ReadFile("id_elgamal.pub")
	require.NoError(t, err)
	assert.Equal(t, "257\n3\n243\n", string(pub))

	require.NoError(t, os.WriteFile("a.txt", []byte("A"), 0o600))
	code, _, errOut = runCLI(t, "encrypt", "-mode", "fixed", "-k", "7", "-in", "a.txt", "-out", "a.enc")
	require.Equal(t, 0, code, errOut)
	ct, err := os.ReadFile("a.enc")
	require.NoError(t, err)
	assert.Equal(t, "131\n11\n", string(ct))
}

func TestKeygenStrictRejects(t *testing.T) {
	setup(t)
	code, _, errOut := runCLI(t, "keygen", "-p", "256", "-strict", "-bits", "64")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid key")
}

func TestCommandErrors(t *testing.T) {
	setup(t)
	for _, tc := range []struct {
		args []string
		code int
		want string
	}{
		{nil, 2, "usage"},
		{[]string{"frobnicate"}, 2, "unknown command"},
		{[]string{"encrypt", "-in", "x"}, 1, "-in and -out are required"},
		{[]string{"encrypt", "-in", "../x", "-out", "y"}, 1, "escapes"},
		{[]string{"encrypt", "-in", "x", "-out", "y"}, 1, "i/o failure"},
		{[]string{"decrypt", "-in", "x", "-out", "x"}, 1, "same file"},
		{[]string{"encrypt", "-in", "x", "-out", "y", "-mode", "sometimes"}, 1, "unknown session mode"},
		{[]string{"keygen", "-p", "nope"}, 1, "not a decimal"},
		{[]string{"keygen", "-nosuchflag"}, 1, "flag provided but not defined"},
	} {
		code, _, errOut := runCLI(t, tc.args...)
		assert.Equal(t, tc.code, code, strings.Join(tc.args, " "))
		assert.Contains(t, errOut, tc.want, strings.Join(tc.args, " "))
	}
}

func TestDecryptEmptyFile(t *testing.T) {
	setup(t)
	code, _, errOut := runCLI(t, "keygen", "-bits", "64")
	require.Equal(t, 0, code, errOut)
	require.NoError(t, os.WriteFile("empty.enc", nil, 0o600))

	code, _, errOut = runCLI(t, "decrypt", "-in", "empty.enc", "-out", "empty.out")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "empty input")
}

func TestPreviewAndVersion(t *testing.T) {
	setup(t)
	require.NoError(t, os.WriteFile("data.bin", []byte{0x41, 0x05}, 0o600))

	code, out, errOut := runCLI(t, "preview", "-in", "data.bin", "-bits", "16")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "01000001 00000101\n", out)

	code, out, _ = runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "elgamal-go v0.0.0-in-progress")
}

func TestBadEnvironment(t *testing.T) {
	setup(t)
	t.Setenv("ELGAMAL_BITS", "4")
	code, _, errOut := runCLI(t, "version")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "config")
}
