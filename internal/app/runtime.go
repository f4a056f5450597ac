package app

import (
	"os"
	"sync"
)

const testModeEnv = "PAINTSTOCK_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})

// InTestMode reports whether binaries should skip runtime side effects such
// as binding ports or connecting to Redis. The flag is read once.
func InTestMode() bool {
	return testMode()
}
