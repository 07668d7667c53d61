package utils

import (
	"math/rand"
	"os"

	"github.com/Luismorlan/socialmux/utils/dotenv"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString returns a random lowercase string of the given length.
func RandomAlphabetString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// IsProdEnv returns true iff the current process runs with the production
// environment config.
func IsProdEnv() bool {
	return os.Getenv("SOCIALMUX_ENV") == dotenv.ProdEnv
}
