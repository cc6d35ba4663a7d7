package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/pwallin/vpcctl/infra"
)

// Config holds the network declaration loaded from network.json.
type Config struct {
	Name              string       `json:"name"`
	Region            string       `json:"region"`
	Profile           string       `json:"profile,omitempty"`
	CidrBlock         string       `json:"cidr_block"`
	AvailabilityZones []string     `json:"availability_zones"`
	PublicSubnet      SubnetConfig `json:"public_subnet"`
	PrivateSubnet     SubnetConfig `json:"private_subnet"`
	NatPerAZ          bool         `json:"nat_per_az,omitempty"`
}

// SubnetConfig describes the subnets of one routing boundary.
type SubnetConfig struct {
	CidrBlocks []string          `json:"cidr_blocks"`
	Tags       map[string]string `json:"tags,omitempty"`
}

var cfg Config

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vpcctl", "network.json")
}

func configPathOrDefault(path string) string {
	if path != "" {
		return path
	}
	return defaultConfigPath()
}

// loadConfig loads and validates config from file. Fails if the file is
// missing or the declared topology is inconsistent.
func loadConfig(path string) error {
	path = configPathOrDefault(path)

	data, err := os.ReadFile(path) //nolint:gosec // path from known config dir
	if err != nil {
		return fmt.Errorf("config not found: %s\nRun 'vpcctl configure' to declare a network", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults()

	if err := cfg.toNetworkConfig().Validate(); err != nil {
		return err
	}

	return nil
}

// loadConfigFile loads config from file if it exists. Returns true if loaded.
func loadConfigFile(path string) bool {
	path = configPathOrDefault(path)
	data, err := os.ReadFile(path) //nolint:gosec // path from known config dir
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return false
	}
	return true
}

// applyDefaults fills in default values for empty config fields.
func applyDefaults() {
	if cfg.Region == "" {
		if len(cfg.AvailabilityZones) > 0 {
			cfg.Region = regionFromZone(cfg.AvailabilityZones[0])
		}
		if cfg.Region == "" {
			cfg.Region = "us-east-1"
		}
	}
	if cfg.CidrBlock == "" {
		cfg.CidrBlock = "10.0.0.0/16"
	}
}

// regionFromZone strips the trailing zone letter: "us-west-2a" -> "us-west-2".
func regionFromZone(zone string) string {
	if len(zone) < 2 {
		return ""
	}
	last := zone[len(zone)-1]
	if last < 'a' || last > 'z' {
		return ""
	}
	return zone[:len(zone)-1]
}

// toNetworkConfig converts the file schema to the builder's explicit input.
func (c *Config) toNetworkConfig() *infra.NetworkConfig {
	return &infra.NetworkConfig{
		Name:              c.Name,
		Region:            c.Region,
		Profile:           c.Profile,
		CidrBlock:         c.CidrBlock,
		AvailabilityZones: c.AvailabilityZones,
		PublicSubnet: infra.SubnetSpec{
			CidrBlocks: c.PublicSubnet.CidrBlocks,
			Tags:       c.PublicSubnet.Tags,
		},
		PrivateSubnet: infra.SubnetSpec{
			CidrBlocks: c.PrivateSubnet.CidrBlocks,
			Tags:       c.PrivateSubnet.Tags,
		},
		NatPerAZ: c.NatPerAZ,
	}
}

// inferAccountID returns the AWS account ID of the active credentials, or
// "" when no credentials resolve.
func inferAccountID(ctx context.Context, profile, region string) string {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return ""
	}
	out, err := sts.NewFromConfig(awsCfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil || out.Account == nil {
		return ""
	}
	return *out.Account
}

// saveConfig writes the current config to the config file.
func saveConfig(path string) error {
	path = configPathOrDefault(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// promptString prompts the user for a string value with a default.
func promptString(label, defaultVal string) string {
	reader := bufio.NewReader(os.Stdin)
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// promptList prompts for a comma-separated list with a default.
func promptList(label string, defaultVal []string) []string {
	input := promptString(label, strings.Join(defaultVal, ","))
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// promptBool prompts for a yes/no value with a default.
func promptBool(label string, defaultVal bool) bool {
	def := "n"
	if defaultVal {
		def = "y"
	}
	input := strings.ToLower(promptString(label+" (y/n)", def))
	return input == "y" || input == "yes"
}

// StateDir returns the local Pulumi state directory path.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vpcctl", "state"), nil
}
