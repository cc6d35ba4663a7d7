package infra

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optimport"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optrefresh"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"
	"github.com/pulumi/pulumi/sdk/v3/go/common/tokens"
	"github.com/pulumi/pulumi/sdk/v3/go/common/workspace"
)

const (
	projectName = "vpcctl"
	stackName   = "default"
)

func getOrCreateStack(ctx context.Context, cfg *NetworkConfig, stateDir string) (auto.Stack, error) {
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return auto.Stack{}, fmt.Errorf("failed to create state dir: %w", err)
	}

	backendURL := "file://" + stateDir

	project := workspace.Project{
		Name:    tokens.PackageName(projectName),
		Runtime: workspace.NewProjectRuntimeInfo("go", nil),
		Backend: &workspace.ProjectBackend{URL: backendURL},
	}

	envVars := map[string]string{
		"PULUMI_CONFIG_PASSPHRASE": "", // no encryption for local state
	}

	s, err := auto.UpsertStackInlineSource(ctx, stackName, projectName,
		DefineInfrastructure(cfg),
		auto.EnvVars(envVars),
		auto.Project(project),
	)
	if err != nil {
		return auto.Stack{}, fmt.Errorf("failed to create/select stack: %w", err)
	}

	s.SetConfig(ctx, "aws:region", auto.ConfigValue{Value: cfg.Region})
	if cfg.Profile != "" {
		s.SetConfig(ctx, "aws:profile", auto.ConfigValue{Value: cfg.Profile})
	}

	return s, nil
}

// importAndRefresh detects already-existing AWS resources, imports them into
// state, and refreshes. Used when the stack is empty but the topology may
// have been created out of band.
func importAndRefresh(ctx context.Context, s auto.Stack, cfg *NetworkConfig) {
	existing := DetectExistingResources(ctx, cfg)
	if len(existing) == 0 {
		log.Printf("[infra] no existing resources found")
		return
	}

	log.Printf("[infra] importing %d existing resources...", len(existing))
	_, err := s.ImportResources(ctx,
		optimport.Resources(existing),
		optimport.Protect(false),
		optimport.GenerateCode(false),
		optimport.ProgressStreams(os.Stdout),
		optimport.ErrorProgressStreams(os.Stderr),
	)
	if err != nil {
		// Import failures are non-fatal; the subsequent up/preview handles
		// whatever didn't match.
		log.Printf("[infra] import completed with warnings: %v", err)
	} else {
		log.Printf("[infra] import complete")
	}

	log.Printf("[infra] refreshing state after import...")
	_, err = s.Refresh(ctx, optrefresh.ProgressStreams(os.Stdout))
	if err != nil {
		log.Printf("[infra] refresh warning: %v", err)
	}
}

// refreshOrImport refreshes a populated stack, or scans for importable
// resources when the stack is empty.
func refreshOrImport(ctx context.Context, s auto.Stack, cfg *NetworkConfig) {
	info, err := s.Info(ctx)
	if err == nil && info.ResourceCount != nil && *info.ResourceCount > 0 {
		log.Printf("[infra] refreshing state from cloud (%d resources)...", *info.ResourceCount)
		_, err = s.Refresh(ctx, optrefresh.ProgressStreams(os.Stdout))
		if err != nil {
			log.Printf("[infra] refresh warning: %v", err)
		}
	} else {
		log.Printf("[infra] empty stack, checking for existing AWS resources...")
		importAndRefresh(ctx, s, cfg)
	}
}

// Up provisions or reconciles the network topology.
func Up(ctx context.Context, cfg *NetworkConfig, stateDir string) error {
	s, err := getOrCreateStack(ctx, cfg, stateDir)
	if err != nil {
		return err
	}

	refreshOrImport(ctx, s, cfg)

	log.Printf("[infra] running up...")
	result, err := s.Up(ctx, optup.ProgressStreams(os.Stdout))
	if err != nil {
		return fmt.Errorf("pulumi up failed: %w", err)
	}

	if result.Summary.ResourceChanges != nil {
		rc := *result.Summary.ResourceChanges
		log.Printf("[infra] up complete: %d created, %d updated, %d unchanged",
			rc["create"], rc["update"], rc["same"])
	} else {
		log.Printf("[infra] up complete")
	}

	return nil
}

// Down destroys the network topology.
func Down(ctx context.Context, cfg *NetworkConfig, stateDir string) error {
	s, err := getOrCreateStack(ctx, cfg, stateDir)
	if err != nil {
		return err
	}

	refreshOrImport(ctx, s, cfg)

	log.Printf("[infra] destroying network topology...")
	result, err := s.Destroy(ctx, optdestroy.ProgressStreams(os.Stdout))
	if err != nil {
		return fmt.Errorf("pulumi destroy failed: %w", err)
	}

	if result.Summary.ResourceChanges != nil {
		rc := *result.Summary.ResourceChanges
		log.Printf("[infra] destroy complete: %d deleted", rc["delete"])
	} else {
		log.Printf("[infra] destroy complete")
	}

	stateFiles, _ := filepath.Glob(filepath.Join(stateDir, "*"))
	for _, f := range stateFiles {
		os.RemoveAll(f)
	}

	return nil
}

// Preview shows what would change without applying.
func Preview(ctx context.Context, cfg *NetworkConfig, stateDir string) error {
	s, err := getOrCreateStack(ctx, cfg, stateDir)
	if err != nil {
		return err
	}

	refreshOrImport(ctx, s, cfg)

	log.Printf("[infra] previewing changes...")
	result, err := s.Preview(ctx)
	if err != nil {
		return fmt.Errorf("pulumi preview failed: %w", err)
	}

	log.Printf("[infra] preview: %d to create, %d to update, %d to delete, %d unchanged",
		result.ChangeSummary["create"],
		result.ChangeSummary["update"],
		result.ChangeSummary["delete"],
		result.ChangeSummary["same"])

	return nil
}

// Outputs returns the stack outputs of the last materialized topology.
func Outputs(ctx context.Context, cfg *NetworkConfig, stateDir string) (map[string]auto.OutputValue, error) {
	s, err := getOrCreateStack(ctx, cfg, stateDir)
	if err != nil {
		return nil, err
	}

	outputs, err := s.Outputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack outputs: %w", err)
	}
	return outputs, nil
}
