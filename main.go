package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ogmaresca/simple-ado/pkg/args"
	"github.com/ogmaresca/simple-ado/pkg/auth"
	"github.com/ogmaresca/simple-ado/pkg/azuredevops"
	"github.com/ogmaresca/simple-ado/pkg/health"
	"github.com/ogmaresca/simple-ado/pkg/logging"
	"github.com/ogmaresca/simple-ado/pkg/monitor"
)

func main() {
	a, err := args.Parse(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Println(args.Usage())
		return
	} else if err != nil {
		logging.Logger.Fatalf("%s\n\n%s", err.Error(), args.Usage())
	}

	logging.Logger.SetLevel(a.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, a); err != nil {
		stop()
		logging.Logger.Fatal(err.Error())
	}
}

func run(ctx context.Context, a args.Args) error {
	switch a.Command {
	case args.CommandLogin:
		store, err := auth.OpenKeyringStore(a.Keyring.Dir)
		if err != nil {
			return err
		}
		if err := store.Set(a.AZD.Tenant, a.AZD.Token); err != nil {
			return err
		}
		logging.Logger.Infof("Stored the token for %s", a.AZD.Tenant)
		return nil
	case args.CommandLogout:
		store, err := auth.OpenKeyringStore(a.Keyring.Dir)
		if err != nil {
			return err
		}
		if err := store.Delete(a.AZD.Tenant); err != nil {
			return err
		}
		logging.Logger.Infof("Removed the token for %s", a.AZD.Tenant)
		return nil
	}

	client, err := newClient(a)
	if err != nil {
		return err
	}

	switch a.Command {
	case args.CommandVerify:
		if !client.VerifyAccess(ctx) {
			return fmt.Errorf("could not access %s with the given credentials", a.AZD.Tenant)
		}
		logging.Logger.Infof("Access to %s verified", a.AZD.Tenant)
		return nil
	case args.CommandPRs:
		opts := azuredevops.ListPullRequestsOptions{
			ProjectID:    a.AZD.ProjectID,
			RepositoryID: a.AZD.RepositoryID,
			Top:          a.PRs.Top,
			Status:       a.PRs.Status,
		}
		if a.PRs.Branch != "" {
			opts.BranchName = &a.PRs.Branch
		}
		pullRequests, err := client.ListAllPullRequests(ctx, opts)
		if err != nil {
			return err
		}
		return printJSON(pullRequests)
	case args.CommandBuilds:
		builds, err := client.Builds.ListBuilds(ctx, azuredevops.ListBuildsOptions{
			ProjectID:   a.AZD.ProjectID,
			Definitions: a.Builds.Definitions,
			Order:       a.Builds.Order,
		})
		if err != nil {
			return err
		}
		return printJSON(builds)
	case args.CommandGet:
		return customGet(ctx, client, a)
	case args.CommandMonitor:
		return runMonitor(ctx, client, a)
	}
	return fmt.Errorf("%w %q", args.ErrUnknownCommand, a.Command)
}

// newClient authenticates with the token argument, falling back to the token stored by the login command
func newClient(a args.Args) (*azuredevops.Client, error) {
	token := a.AZD.Token
	if token == "" {
		store, err := auth.OpenKeyringStore(a.Keyring.Dir)
		if err != nil {
			return nil, err
		}
		token, err = store.Get(a.AZD.Tenant)
		if errors.Is(err, auth.ErrNoStoredToken) {
			return nil, fmt.Errorf("%w: pass --token, set %s_BASE_TOKEN, or run simple-ado login", err, args.EnvPrefix)
		} else if err != nil {
			return nil, err
		}
	}

	opts := []azuredevops.Option{azuredevops.WithLogger(logging.Logger.WithField(logging.ComponentField, "cli"))}
	if a.AZD.UserAgent != "" {
		opts = append(opts, azuredevops.WithUserAgent(a.AZD.UserAgent))
	}
	return azuredevops.NewClient(a.AZD.Tenant, auth.NewPATAuth(token), opts...), nil
}

func customGet(ctx context.Context, client *azuredevops.Client, a args.Args) error {
	parameters := url.Values{}
	for key, value := range a.Get.Parameters {
		parameters.Set(key, value)
	}

	response, err := client.CustomGet(ctx, azuredevops.CustomGetOptions{
		URLFragment: a.Get.Path,
		Parameters:  parameters,
		Endpoint:    azuredevops.Endpoint{ProjectID: a.AZD.ProjectID},
	})
	if err != nil {
		return err
	}

	var body interface{}
	if err := client.HTTP.DecodeResponse(response, &body); err != nil {
		return err
	}
	return printJSON(body)
}

func runMonitor(ctx context.Context, client *azuredevops.Client, a args.Args) error {
	poolID, err := monitor.ResolvePoolID(ctx, client.Pools, a.Monitor.Pool)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(a.Health.Port),
		Handler:           health.NewServeMux(client.VerifyAccess),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Errorf("Error serving health checks: %s", err.Error())
		}
	}()
	defer server.Close()

	m := monitor.New(client.Pools, monitor.Settings{
		PoolID: poolID,
		Min:    a.Monitor.Min,
		Max:    a.Monitor.Max,
		Rate:   a.Monitor.Rate,
	}, nil)

	logging.Logger.Infof("Monitoring agent pool %s (%d) every %s", a.Monitor.Pool, poolID, a.Monitor.Rate)
	m.Run(ctx, func(snapshot monitor.Snapshot) {
		logging.Logger.Infof("%d busy agents, %d queued jobs, %d agents recommended", snapshot.BusyAgents, snapshot.QueuedJobs, snapshot.Recommended)
	})

	logging.Logger.Info("Exiting simple-ado monitor")
	return nil
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
