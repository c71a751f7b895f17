package config

import "os"

func IsDebug() bool {
	return os.Getenv("GROQEE_DEBUG") == "1"
}
