package appconf

import "time"

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the -env flag value to an Environment.
// Unknown values fall back to Development.
func EnvFlagToEnvironment(flag string) Environment {
	switch flag {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Config holds all the runtime configuration for the application. The values
// are read from command-line flags when the server starts.
type Config struct {
	Port            int
	Env             Environment
	DataDir         string
	UsersDBPath     string
	CredentialsPath string
	RateLimit       int
	SessionTTL      time.Duration
	CORSOrigin      string
}
