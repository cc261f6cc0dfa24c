package main

// @title           Credentials Core API
// @version         1.0
// @description     Account registration and login. Issues signed session tokens carrying email, name and age.

// @contact.name   Custodia Labs OSS
// @contact.url    https://github.com/custodia-labs/credentials-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"os"
)

var version = "dev"

func main() {
	cmd := NewRootCmd()
	cmd.Version = version

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
