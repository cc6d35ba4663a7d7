package infra

import (
	"errors"
	"reflect"
	"testing"
)

func twoZoneConfig() *NetworkConfig {
	return &NetworkConfig{
		Name:              "dev",
		Region:            "us-west-2",
		CidrBlock:         "10.0.0.0/16",
		AvailabilityZones: []string{"a", "b"},
		PublicSubnet: SubnetSpec{
			CidrBlocks: []string{"10.0.1.0/24", "10.0.2.0/24"},
		},
		PrivateSubnet: SubnetSpec{
			CidrBlocks: []string{"10.0.3.0/24", "10.0.4.0/24"},
		},
	}
}

func TestBuildPlanTwoZoneTopology(t *testing.T) {
	plan, err := BuildPlan(twoZoneConfig())
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}

	if plan.VPCName != "dev-vpc" {
		t.Errorf("VPCName = %q, want %q", plan.VPCName, "dev-vpc")
	}
	if plan.CidrBlock != "10.0.0.0/16" {
		t.Errorf("CidrBlock = %q, want %q", plan.CidrBlock, "10.0.0.0/16")
	}
	if plan.VPCOnly {
		t.Error("VPCOnly = true, want false")
	}

	wantPublic := []struct {
		name string
		cidr string
		az   string
	}{
		{"dev-public-subnet-a", "10.0.1.0/24", "a"},
		{"dev-public-subnet-b", "10.0.2.0/24", "b"},
	}
	if len(plan.PublicSubnets) != len(wantPublic) {
		t.Fatalf("got %d public subnets, want %d", len(plan.PublicSubnets), len(wantPublic))
	}
	for i, want := range wantPublic {
		got := plan.PublicSubnets[i]
		if got.Name != want.name || got.CidrBlock != want.cidr || got.AvailabilityZone != want.az {
			t.Errorf("public subnet %d = {%s %s %s}, want {%s %s %s}",
				i, got.Name, got.CidrBlock, got.AvailabilityZone, want.name, want.cidr, want.az)
		}
		if got.Boundary != BoundaryPublic {
			t.Errorf("public subnet %d boundary = %q", i, got.Boundary)
		}
	}

	wantPrivate := []string{"dev-private-subnet-a", "dev-private-subnet-b"}
	if len(plan.PrivateSubnets) != len(wantPrivate) {
		t.Fatalf("got %d private subnets, want %d", len(plan.PrivateSubnets), len(wantPrivate))
	}
	for i, want := range wantPrivate {
		if plan.PrivateSubnets[i].Name != want {
			t.Errorf("private subnet %d name = %q, want %q", i, plan.PrivateSubnets[i].Name, want)
		}
	}

	if plan.InternetGatewayName != "dev-igw" {
		t.Errorf("InternetGatewayName = %q, want %q", plan.InternetGatewayName, "dev-igw")
	}
	if plan.PublicRouteTableName != "dev-public-rtb" {
		t.Errorf("PublicRouteTableName = %q", plan.PublicRouteTableName)
	}
	if !reflect.DeepEqual(plan.PrivateRouteTableNames, []string{"dev-private-rtb"}) {
		t.Errorf("PrivateRouteTableNames = %v", plan.PrivateRouteTableNames)
	}
}

func TestBuildPlanDeterminism(t *testing.T) {
	first, err := BuildPlan(twoZoneConfig())
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}
	second, err := BuildPlan(twoZoneConfig())
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical configs produced different plans")
	}
}

func TestBuildPlanNatPlacement(t *testing.T) {
	plan, err := BuildPlan(twoZoneConfig())
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}

	if len(plan.Nats) != 1 {
		t.Fatalf("got %d NATs, want 1", len(plan.Nats))
	}
	nat := plan.Nats[0]
	if nat.PublicSubnetIndex != 0 {
		t.Errorf("NAT subnet index = %d, want 0", nat.PublicSubnetIndex)
	}
	if nat.Name != "dev-nat" || nat.EIPName != "dev-eip" {
		t.Errorf("NAT names = %q/%q", nat.Name, nat.EIPName)
	}

	// Every private subnet shares the single table.
	for i := range plan.PrivateSubnets {
		if idx := plan.PrivateTableIndex(i); idx != 0 {
			t.Errorf("PrivateTableIndex(%d) = %d, want 0", i, idx)
		}
	}
}

func TestBuildPlanNatPerAZ(t *testing.T) {
	cfg := twoZoneConfig()
	cfg.NatPerAZ = true

	plan, err := BuildPlan(cfg)
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}

	if len(plan.Nats) != 2 {
		t.Fatalf("got %d NATs, want 2", len(plan.Nats))
	}
	wantNats := []NatPlan{
		{Name: "dev-nat-a", EIPName: "dev-eip-a", PublicSubnetIndex: 0},
		{Name: "dev-nat-b", EIPName: "dev-eip-b", PublicSubnetIndex: 1},
	}
	if !reflect.DeepEqual(plan.Nats, wantNats) {
		t.Errorf("Nats = %+v, want %+v", plan.Nats, wantNats)
	}

	wantTables := []string{"dev-private-rtb-a", "dev-private-rtb-b"}
	if !reflect.DeepEqual(plan.PrivateRouteTableNames, wantTables) {
		t.Errorf("PrivateRouteTableNames = %v, want %v", plan.PrivateRouteTableNames, wantTables)
	}

	// Private subnet i routes through its own zone's table.
	for i := range plan.PrivateSubnets {
		if idx := plan.PrivateTableIndex(i); idx != i {
			t.Errorf("PrivateTableIndex(%d) = %d, want %d", i, idx, i)
		}
	}
}

func TestBuildPlanAssociations(t *testing.T) {
	plan, err := BuildPlan(twoZoneConfig())
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}

	wantPublic := []string{"dev-public-rtb-assc-0", "dev-public-rtb-assc-1"}
	if !reflect.DeepEqual(plan.PublicAssociationNames, wantPublic) {
		t.Errorf("PublicAssociationNames = %v, want %v", plan.PublicAssociationNames, wantPublic)
	}
	wantPrivate := []string{"dev-private-rtb-assc-0", "dev-private-rtb-assc-1"}
	if !reflect.DeepEqual(plan.PrivateAssociationNames, wantPrivate) {
		t.Errorf("PrivateAssociationNames = %v, want %v", plan.PrivateAssociationNames, wantPrivate)
	}
}

func TestBuildPlanTags(t *testing.T) {
	cfg := twoZoneConfig()
	cfg.PublicSubnet.Tags = map[string]string{
		"Tier": "web",
		"Name": "should-lose",
	}

	plan, err := BuildPlan(cfg)
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}

	got := plan.PublicSubnets[0].Tags
	if got["Tier"] != "web" {
		t.Errorf("caller tag Tier = %q, want %q", got["Tier"], "web")
	}
	if got["Name"] != "dev-public-subnet-a" {
		t.Errorf("Name tag = %q, want derived name", got["Name"])
	}

	// The caller's map must not be mutated.
	if cfg.PublicSubnet.Tags["Name"] != "should-lose" {
		t.Error("caller tag map was mutated")
	}
}

func TestBuildPlanVPCOnly(t *testing.T) {
	cfg := &NetworkConfig{
		Name:      "iso",
		Region:    "eu-central-1",
		CidrBlock: "172.16.0.0/16",
	}

	plan, err := BuildPlan(cfg)
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}

	if !plan.VPCOnly {
		t.Error("VPCOnly = false, want true")
	}
	if plan.VPCName != "iso-vpc" {
		t.Errorf("VPCName = %q", plan.VPCName)
	}
	if len(plan.PublicSubnets) != 0 || len(plan.PrivateSubnets) != 0 {
		t.Error("VPC-only plan has subnets")
	}
	if plan.InternetGatewayName != "" || len(plan.Nats) != 0 {
		t.Error("VPC-only plan has gateways")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*NetworkConfig)
		wantField string
	}{
		{
			name:      "missing name",
			mutate:    func(c *NetworkConfig) { c.Name = "" },
			wantField: "name",
		},
		{
			name:      "missing cidr",
			mutate:    func(c *NetworkConfig) { c.CidrBlock = "" },
			wantField: "cidr_block",
		},
		{
			name:      "malformed cidr",
			mutate:    func(c *NetworkConfig) { c.CidrBlock = "10.0.0.0/33" },
			wantField: "cidr_block",
		},
		{
			name:      "public cardinality mismatch",
			mutate:    func(c *NetworkConfig) { c.PublicSubnet.CidrBlocks = c.PublicSubnet.CidrBlocks[:1] },
			wantField: "public_subnet.cidr_blocks",
		},
		{
			name:      "private cardinality mismatch",
			mutate:    func(c *NetworkConfig) { c.PrivateSubnet.CidrBlocks = append(c.PrivateSubnet.CidrBlocks, "10.0.5.0/24") },
			wantField: "private_subnet.cidr_blocks",
		},
		{
			name:      "malformed subnet cidr",
			mutate:    func(c *NetworkConfig) { c.PublicSubnet.CidrBlocks[1] = "not-a-cidr" },
			wantField: "public_subnet.cidr_blocks[1]",
		},
		{
			name: "subnets without zones",
			mutate: func(c *NetworkConfig) {
				c.AvailabilityZones = nil
				c.PrivateSubnet.CidrBlocks = nil
			},
			wantField: "public_subnet.cidr_blocks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := twoZoneConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() error type %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateOK(t *testing.T) {
	if err := twoZoneConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	vpcOnly := &NetworkConfig{Name: "iso", CidrBlock: "10.1.0.0/16"}
	if err := vpcOnly.Validate(); err != nil {
		t.Errorf("Validate() VPC-only = %v, want nil", err)
	}
}
