package infra

import (
	"fmt"
	"net"
)

// SubnetPlan is the desired state of a single subnet. The Name tag is
// injected over the caller-supplied tags and always equals Name.
type SubnetPlan struct {
	Name             string
	CidrBlock        string
	AvailabilityZone string
	Boundary         Boundary
	Tags             map[string]string
}

// NatPlan places one NAT gateway and its elastic IP on a public subnet.
type NatPlan struct {
	Name              string
	EIPName           string
	PublicSubnetIndex int
}

// TopologyPlan is the desired resource graph derived from a NetworkConfig.
// Every name in it is a pure function of (config name, boundary, AZ or
// index) — identical input yields an identical plan on every invocation.
type TopologyPlan struct {
	VPCName   string
	CidrBlock string
	VPCOnly   bool

	PublicSubnets  []SubnetPlan
	PrivateSubnets []SubnetPlan

	InternetGatewayName    string
	Nats                   []NatPlan
	PublicRouteTableName   string
	PrivateRouteTableNames []string

	PublicAssociationNames  []string
	PrivateAssociationNames []string
}

// PrivateTableIndex returns the private route table that subnet i
// associates with: the single shared table, or the per-AZ table when one
// NAT per zone was requested.
func (p *TopologyPlan) PrivateTableIndex(i int) int {
	if len(p.PrivateRouteTableNames) == 1 {
		return 0
	}
	return i
}

// Validate checks the configuration before any derivation happens. An AZ
// count that disagrees with either CIDR list is an error rather than a
// silent truncation.
func (c *NetworkConfig) Validate() error {
	if c.Name == "" {
		return &ConfigError{Field: "name", Reason: "required"}
	}
	if c.CidrBlock == "" {
		return &ConfigError{Field: "cidr_block", Reason: "required"}
	}
	if _, _, err := net.ParseCIDR(c.CidrBlock); err != nil {
		return &ConfigError{Field: "cidr_block", Reason: fmt.Sprintf("invalid CIDR %q", c.CidrBlock)}
	}

	azs := len(c.AvailabilityZones)
	if azs == 0 {
		// VPC-only reduction: no subnets may be declared without zones.
		if len(c.PublicSubnet.CidrBlocks) > 0 {
			return &ConfigError{Field: "public_subnet.cidr_blocks", Reason: "subnet CIDRs given but availability_zones is empty"}
		}
		if len(c.PrivateSubnet.CidrBlocks) > 0 {
			return &ConfigError{Field: "private_subnet.cidr_blocks", Reason: "subnet CIDRs given but availability_zones is empty"}
		}
		return nil
	}

	if got := len(c.PublicSubnet.CidrBlocks); got != azs {
		return &ConfigError{
			Field:  "public_subnet.cidr_blocks",
			Reason: fmt.Sprintf("%d CIDR blocks for %d availability zones", got, azs),
		}
	}
	if got := len(c.PrivateSubnet.CidrBlocks); got != azs {
		return &ConfigError{
			Field:  "private_subnet.cidr_blocks",
			Reason: fmt.Sprintf("%d CIDR blocks for %d availability zones", got, azs),
		}
	}
	for i, cidr := range c.PublicSubnet.CidrBlocks {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return &ConfigError{Field: fmt.Sprintf("public_subnet.cidr_blocks[%d]", i), Reason: fmt.Sprintf("invalid CIDR %q", cidr)}
		}
	}
	for i, cidr := range c.PrivateSubnet.CidrBlocks {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return &ConfigError{Field: fmt.Sprintf("private_subnet.cidr_blocks[%d]", i), Reason: fmt.Sprintf("invalid CIDR %q", cidr)}
		}
	}
	return nil
}

// BuildPlan derives the desired topology from the configuration. It is a
// pure function: no cloud calls, no randomness, no side effects.
func BuildPlan(c *NetworkConfig) (*TopologyPlan, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	plan := &TopologyPlan{
		VPCName:   c.Name + "-vpc",
		CidrBlock: c.CidrBlock,
	}

	if len(c.AvailabilityZones) == 0 {
		plan.VPCOnly = true
		return plan, nil
	}

	plan.PublicSubnets = subnetPlans(c.Name, BoundaryPublic, c.AvailabilityZones, c.PublicSubnet)
	plan.PrivateSubnets = subnetPlans(c.Name, BoundaryPrivate, c.AvailabilityZones, c.PrivateSubnet)

	plan.InternetGatewayName = c.Name + "-igw"

	if c.NatPerAZ {
		for i, az := range c.AvailabilityZones {
			plan.Nats = append(plan.Nats, NatPlan{
				Name:              fmt.Sprintf("%s-nat-%s", c.Name, az),
				EIPName:           fmt.Sprintf("%s-eip-%s", c.Name, az),
				PublicSubnetIndex: i,
			})
			plan.PrivateRouteTableNames = append(plan.PrivateRouteTableNames,
				fmt.Sprintf("%s-private-rtb-%s", c.Name, az))
		}
	} else {
		// Single-AZ NAT on the first public subnet. A cost tradeoff, not
		// an oversight.
		plan.Nats = []NatPlan{{
			Name:              c.Name + "-nat",
			EIPName:           c.Name + "-eip",
			PublicSubnetIndex: 0,
		}}
		plan.PrivateRouteTableNames = []string{c.Name + "-private-rtb"}
	}

	plan.PublicRouteTableName = c.Name + "-public-rtb"

	for i := range plan.PublicSubnets {
		plan.PublicAssociationNames = append(plan.PublicAssociationNames,
			associationName(c.Name, BoundaryPublic, i))
	}
	for i := range plan.PrivateSubnets {
		plan.PrivateAssociationNames = append(plan.PrivateAssociationNames,
			associationName(c.Name, BoundaryPrivate, i))
	}

	return plan, nil
}

func subnetPlans(name string, boundary Boundary, azs []string, spec SubnetSpec) []SubnetPlan {
	plans := make([]SubnetPlan, 0, len(azs))
	for i, az := range azs {
		subnetName := fmt.Sprintf("%s-%s-subnet-%s", name, boundary, az)
		plans = append(plans, SubnetPlan{
			Name:             subnetName,
			CidrBlock:        spec.CidrBlocks[i],
			AvailabilityZone: az,
			Boundary:         boundary,
			Tags:             withNameTag(spec.Tags, subnetName),
		})
	}
	return plans
}

func associationName(name string, boundary Boundary, index int) string {
	return fmt.Sprintf("%s-%s-rtb-assc-%d", name, boundary, index)
}

// withNameTag copies the caller's tags and injects the Name tag. Caller
// tags are preserved verbatim; a caller-supplied Name loses to the derived
// one.
func withNameTag(tags map[string]string, name string) map[string]string {
	merged := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		merged[k] = v
	}
	merged["Name"] = name
	return merged
}
