package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors shared with the status table.
var (
	setupCyan  = lipgloss.Color("#22d3ee")
	setupGreen = lipgloss.Color("#4ade80")
	setupGray  = lipgloss.Color("#6b7280")
	setupDim   = lipgloss.Color("#374151")
)

// sectionHeader prints a bold cyan label with a dim rule line.
func sectionHeader(label string) {
	styled := lipgloss.NewStyle().Bold(true).Foreground(setupCyan).Render(label)
	ruleLen := 40 - len(label) - 1
	if ruleLen < 4 {
		ruleLen = 4
	}
	rule := lipgloss.NewStyle().Foreground(setupDim).Render(strings.Repeat("─", ruleLen))
	fmt.Printf("\n  ── %s %s\n", styled, rule)
}

func runConfigure(ctx context.Context, configPath string) {
	loadConfigFile(configPath)

	sectionHeader("Account")
	if account := inferAccountID(ctx, cfg.Profile, cfg.Region); account != "" {
		fmt.Printf("  AWS account: %s\n", lipgloss.NewStyle().Foreground(setupGreen).Render(account))
	} else {
		fmt.Printf("  %s\n", lipgloss.NewStyle().Foreground(setupGray).Render("No AWS credentials resolved yet — 'vpcctl up' will need them."))
	}

	sectionHeader("Network")
	cfg.Name = promptString("Deployment name", cfg.Name)
	cfg.Region = promptString("Region", cfg.Region)
	cfg.Profile = promptString("AWS profile (empty for default)", cfg.Profile)
	cfg.CidrBlock = promptString("VPC CIDR block", cfg.CidrBlock)

	sectionHeader("Subnets")
	fmt.Printf("  %s\n", lipgloss.NewStyle().Foreground(setupGray).Render("Leave zones empty for a VPC-only network (no subnets, no gateways)."))
	cfg.AvailabilityZones = promptList("Availability zones (comma-separated)", cfg.AvailabilityZones)
	if len(cfg.AvailabilityZones) > 0 {
		cfg.PublicSubnet.CidrBlocks = promptList("Public subnet CIDRs (one per zone)", cfg.PublicSubnet.CidrBlocks)
		cfg.PrivateSubnet.CidrBlocks = promptList("Private subnet CIDRs (one per zone)", cfg.PrivateSubnet.CidrBlocks)
		cfg.NatPerAZ = promptBool("One NAT gateway per zone", cfg.NatPerAZ)
	} else {
		cfg.PublicSubnet.CidrBlocks = nil
		cfg.PrivateSubnet.CidrBlocks = nil
		cfg.NatPerAZ = false
	}

	applyDefaults()

	if err := cfg.toNetworkConfig().Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := saveConfig(configPath); err != nil {
		log.Fatalf("failed to save config: %v", err)
	}
}
