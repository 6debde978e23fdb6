package args

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
)

// EnvPrefix is the prefix of every environment variable read by the CLI
const EnvPrefix = "SIMPLE_ADO"

// Commands supported by the CLI
const (
	CommandVerify  = "verify"
	CommandLogin   = "login"
	CommandLogout  = "logout"
	CommandPRs     = "prs"
	CommandBuilds  = "builds"
	CommandGet     = "get"
	CommandMonitor = "monitor"
)

var commands = []string{CommandVerify, CommandLogin, CommandLogout, CommandPRs, CommandBuilds, CommandGet, CommandMonitor}

// Args holds all of the program arguments
type Args struct {
	Command string

	AZD     AzureDevopsArgs
	Logging LoggingArgs
	Keyring KeyringArgs
	PRs     PullRequestArgs
	Builds  BuildArgs
	Get     GetArgs
	Monitor MonitorArgs
	Health  HealthArgs
}

// AzureDevopsArgs holds all of the Azure Devops related args
type AzureDevopsArgs struct {
	Tenant       string
	Token        string
	ProjectID    string
	RepositoryID string
	UserAgent    string
}

// LoggingArgs holds all of the logging related args
type LoggingArgs struct {
	Level log.Level
}

// KeyringArgs holds the credential store args
type KeyringArgs struct {
	// Dir is the directory of the encrypted file fallback
	Dir string
}

// PullRequestArgs holds the args of the prs command
type PullRequestArgs struct {
	Status azuredevops.PullRequestStatus
	Branch string
	Top    int
}

// BuildArgs holds the args of the builds command
type BuildArgs struct {
	Definitions []int
	Order       azuredevops.BuildQueryOrder
}

// GetArgs holds the args of the get command
type GetArgs struct {
	Path       string
	Parameters map[string]string
}

// MonitorArgs holds the args of the monitor command
type MonitorArgs struct {
	Pool string
	Min  int
	Max  int
	Rate time.Duration
}

// HealthArgs holds all of the healthcheck related args
type HealthArgs struct {
	Port int
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("simple-ado", pflag.ContinueOnError)
	flags.String("config", "", "Optional config file (yaml, json, or toml).")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal, panic).")
	flags.String("tenant", "", "The Azure Devops organization.")
	flags.String("token", "", "The Azure Devops personal access token. Read from the keyring when not set.")
	flags.String("project-id", "", "The project ID.")
	flags.String("repo-id", "", "The repository ID.")
	flags.String("user-agent", "", "Suffix of the User-Agent header. Defaults to the tenant.")
	flags.String("keyring-dir", "~/.simple-ado/keyring", "Directory of the encrypted file keyring, used when no system keyring is available.")
	flags.String("status", "active", "Pull request status filter (active, abandoned, completed, all).")
	flags.String("branch", "", "Source branch filter of pull requests.")
	flags.Int("top", 100, "Page size when listing pull requests.")
	flags.IntSlice("definition", nil, "Build definition IDs to list builds of.")
	flags.String("order", "", "Build query order, ex: finishTimeDescending.")
	flags.String("path", "", "API path to GET, relative to _apis.")
	flags.StringToString("param", nil, "Query parameters of the get command.")
	flags.String("pool", "", "The name of the agent pool to monitor.")
	flags.Int("min", 1, "Minimum number of free agents to keep alive. Minimum of 1.")
	flags.Int("max", 100, "Maximum number of agents allowed.")
	flags.Duration("rate", 10*time.Second, "Duration to check the number of agents.")
	flags.Int("port", 10101, "The port to serve metrics and health checks.")
	return flags
}

// Parse reads the command and arguments. Flags take precedence over SIMPLE_ADO_ environment variables,
// which take precedence over the config file.
func Parse(arguments []string) (Args, error) {
	flags := newFlagSet()
	if err := flags.Parse(arguments); err != nil {
		return Args{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return Args{}, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("token", EnvPrefix+"_BASE_TOKEN"); err != nil {
		return Args{}, err
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Args{}, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	var validationErrors []string

	command := ""
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	logLevel, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	definitions, err := flags.GetIntSlice("definition")
	if err != nil {
		validationErrors = append(validationErrors, err.Error())
	}
	parameters, err := flags.GetStringToString("param")
	if err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	a := Args{
		Command: command,
		AZD: AzureDevopsArgs{
			Tenant:       v.GetString("tenant"),
			Token:        v.GetString("token"),
			ProjectID:    v.GetString("project-id"),
			RepositoryID: v.GetString("repo-id"),
			UserAgent:    v.GetString("user-agent"),
		},
		Logging: LoggingArgs{
			Level: logLevel,
		},
		Keyring: KeyringArgs{
			Dir: v.GetString("keyring-dir"),
		},
		PRs: PullRequestArgs{
			Status: azuredevops.PullRequestStatus(v.GetString("status")),
			Branch: v.GetString("branch"),
			Top:    v.GetInt("top"),
		},
		Builds: BuildArgs{
			Definitions: definitions,
			Order:       azuredevops.BuildQueryOrder(v.GetString("order")),
		},
		Get: GetArgs{
			Path:       v.GetString("path"),
			Parameters: parameters,
		},
		Monitor: MonitorArgs{
			Pool: v.GetString("pool"),
			Min:  v.GetInt("min"),
			Max:  v.GetInt("max"),
			Rate: v.GetDuration("rate"),
		},
		Health: HealthArgs{
			Port: v.GetInt("port"),
		},
	}

	validationErrors = append(validationErrors, a.validate()...)
	if len(validationErrors) > 0 {
		return a, fmt.Errorf("Error(s) with arguments:\n%s", strings.Join(validationErrors, "\n"))
	}
	return a, nil
}

// ErrUnknownCommand is returned when no supported command was given
var ErrUnknownCommand = errors.New("unknown command")

// Usage returns the list of commands and flags
func Usage() string {
	return "Usage: simple-ado <" + strings.Join(commands, "|") + "> [flags]\n" + newFlagSet().FlagUsages()
}

func (a Args) validate() []string {
	var validationErrors []string

	known := false
	for _, command := range commands {
		known = known || command == a.Command
	}
	if !known {
		return []string{fmt.Sprintf("%s %q. Expected one of %s.", ErrUnknownCommand.Error(), a.Command, strings.Join(commands, ", "))}
	}

	if a.AZD.Tenant == "" {
		validationErrors = append(validationErrors, "The Azure Devops tenant is required.")
	}
	if a.Command == CommandLogin && a.AZD.Token == "" {
		validationErrors = append(validationErrors, "The Azure Devops token is required to log in.")
	}

	switch a.Command {
	case CommandPRs:
		if a.AZD.ProjectID == "" {
			validationErrors = append(validationErrors, "The project ID is required.")
		}
		if a.AZD.RepositoryID == "" {
			validationErrors = append(validationErrors, "The repository ID is required.")
		}
		if a.PRs.Top < 1 {
			validationErrors = append(validationErrors, "Top cannot be less than 1.")
		}
	case CommandBuilds:
		if a.AZD.ProjectID == "" {
			validationErrors = append(validationErrors, "The project ID is required.")
		}
	case CommandGet:
		if a.Get.Path == "" {
			validationErrors = append(validationErrors, "The API path is required.")
		}
	case CommandMonitor:
		if a.Monitor.Pool == "" {
			validationErrors = append(validationErrors, "The agent pool is required.")
		}
		if a.Monitor.Min < 1 {
			validationErrors = append(validationErrors, "Min argument cannot be less than 1.")
		}
		if a.Monitor.Max <= a.Monitor.Min {
			validationErrors = append(validationErrors, "Max agents argument must be greater than the minimum.")
		}
		if a.Monitor.Rate.Seconds() <= 1 {
			validationErrors = append(validationErrors, fmt.Sprintf("Rate '%s' is too low.", a.Monitor.Rate.String()))
		}
		if a.Health.Port < 0 {
			validationErrors = append(validationErrors, "The port must be greater than 0.")
		}
	}

	return validationErrors
}
