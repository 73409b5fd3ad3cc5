package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cdot65/scmsync/pkg/events"
	"github.com/cdot65/scmsync/pkg/log"
	"github.com/cdot65/scmsync/pkg/metrics"
	"github.com/cdot65/scmsync/pkg/objects"
	"github.com/cdot65/scmsync/pkg/reconciler"
	"github.com/cdot65/scmsync/pkg/scm"
	"github.com/cdot65/scmsync/pkg/scm/localstore"
	"github.com/cdot65/scmsync/pkg/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile a desired-state file against the backend",
	Long: `Apply a desired-state specification from a YAML file.

Credentials are read from the environment: SCM_CLIENT_ID, SCM_CLIENT_SECRET
and SCM_TSG_ID.

Examples:
  # Reconcile all resources in the file
  scmsync apply -f objects.yaml

  # Preview the decisions without mutating anything
  scmsync apply -f objects.yaml --dry-run

  # Reconcile against a local snapshot store instead of the remote API
  scmsync apply -f objects.yaml --local snapshot.db`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML file to apply (required)")
	applyCmd.Flags().Bool("dry-run", false, "Compute every decision but issue no mutating call")
	applyCmd.Flags().String("local", "", "Path to a local snapshot store to reconcile against")
	applyCmd.Flags().String("metrics-addr", "", "Address to expose Prometheus metrics on while the run lasts (e.g. :9090)")
	_ = applyCmd.MarkFlagRequired("file")
}

// specFile is the on-disk desired-state document.
type specFile struct {
	Resources []resourceDoc `yaml:"resources"`
}

type resourceDoc struct {
	Kind  string    `yaml:"kind"`
	State string    `yaml:"state"`
	Spec  yaml.Node `yaml:"spec"`
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	localPath, _ := cmd.Flags().GetString("local")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var file specFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Resources) == 0 {
		return fmt.Errorf("%s declares no resources", filename)
	}
	log.Debug(fmt.Sprintf("parsed %d resource(s) from %s", len(file.Resources), filename))

	if metricsAddr != "" {
		go serveMetrics(metricsAddr)
	}

	ctx := cmd.Context()

	client, cleanup, err := newClient(ctx, localPath)
	if err != nil {
		return err
	}
	defer cleanup()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	sub := broker.Subscribe()

	rec := reconciler.New(client, reconciler.WithEvents(broker))

	changed := 0
	for i, doc := range file.Resources {
		res, state, err := decodeResource(&doc)
		if err != nil {
			return fmt.Errorf("resource %d: %w", i+1, err)
		}

		result, err := rec.Reconcile(ctx, res, state, dryRun)
		if err != nil {
			return fmt.Errorf("resource %d (%s): %w", i+1, doc.Kind, err)
		}
		if result.Changed {
			changed++
		}
		printOutcome(sub, result, dryRun)
	}

	fmt.Printf("Applied %d resource(s), %d changed\n", len(file.Resources), changed)
	return nil
}

// newClient opens either an authenticated remote session or, with --local, a
// snapshot store. The reconciliation engine is identical over both.
func newClient(ctx context.Context, localPath string) (scm.Client, func(), error) {
	if localPath != "" {
		store, err := localstore.Open(localPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local store: %w", err)
		}
		return store, func() { store.Close() }, nil
	}

	creds := scm.Credentials{
		ClientID:     os.Getenv("SCM_CLIENT_ID"),
		ClientSecret: os.Getenv("SCM_CLIENT_SECRET"),
		TSGID:        os.Getenv("SCM_TSG_ID"),
	}
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.TSGID == "" {
		return nil, nil, fmt.Errorf("SCM_CLIENT_ID, SCM_CLIENT_SECRET and SCM_TSG_ID must be set")
	}
	client, err := scm.Authenticate(ctx, creds)
	if err != nil {
		return nil, nil, err
	}
	log.Info("backend session authenticated")
	return client, func() {}, nil
}

// serveMetrics exposes the Prometheus scrape endpoint for the duration of
// the run.
func serveMetrics(addr string) {
	log.Info("serving metrics on " + addr)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics listener failed: " + err.Error())
	}
}

// decodeResource turns one document entry into its typed resource kind.
func decodeResource(doc *resourceDoc) (reconciler.Resource, types.State, error) {
	state, err := types.ParseState(doc.State)
	if err != nil {
		return nil, "", err
	}

	var res reconciler.Resource
	switch types.ResourceKind(doc.Kind) {
	case types.KindAddress:
		res = &objects.Address{}
	case types.KindAddressGroup:
		res = &objects.AddressGroup{}
	case types.KindApplication:
		res = &objects.Application{}
	case types.KindApplicationGroup:
		res = &objects.ApplicationGroup{}
	case types.KindService:
		res = &objects.Service{}
	case types.KindServiceGroup:
		res = &objects.ServiceGroup{}
	case types.KindTag:
		res = &objects.Tag{}
	default:
		return nil, "", fmt.Errorf("unsupported resource kind: %q", doc.Kind)
	}
	if err := doc.Spec.Decode(res); err != nil {
		return nil, "", fmt.Errorf("failed to decode %s spec: %w", doc.Kind, err)
	}
	return res, state, nil
}

// actionPast spells the mutating actions in past tense for output lines.
var actionPast = map[reconciler.Action]string{
	reconciler.ActionCreate: "created",
	reconciler.ActionUpdate: "updated",
	reconciler.ActionDelete: "deleted",
}

// printOutcome reports the run's event on stdout. Every run publishes
// exactly one event, so a short inline wait keeps output ordered.
func printOutcome(sub events.Subscriber, result *reconciler.Result, dryRun bool) {
	select {
	case e := <-sub:
		marker := "✓"
		if dryRun {
			marker = "~"
		}
		switch {
		case result.Action == reconciler.ActionNoOp:
			fmt.Printf("%s %s in sync\n", marker, e.Identity)
		case e.Type == events.EventDryRunSkipped:
			fmt.Printf("%s %s would be %s\n", marker, e.Identity, actionPast[result.Action])
		default:
			fmt.Printf("%s %s %s\n", marker, e.Identity, actionPast[result.Action])
		}
	case <-time.After(time.Second):
		log.Warn("no outcome event received for resource")
	}
}
