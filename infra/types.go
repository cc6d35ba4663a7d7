package infra

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
)

// Boundary classifies a subnet's routing exposure.
type Boundary string

const (
	BoundaryPublic  Boundary = "public"
	BoundaryPrivate Boundary = "private"
)

// NetworkConfig holds all parameters needed to derive the network topology.
// It is passed explicitly to the builder; there is no global config state.
type NetworkConfig struct {
	Name              string
	Region            string
	Profile           string
	CidrBlock         string
	AvailabilityZones []string
	PublicSubnet      SubnetSpec
	PrivateSubnet     SubnetSpec
	// NatPerAZ provisions one NAT gateway per availability zone instead of
	// a single NAT on the first public subnet. Costs more, survives an AZ
	// outage.
	NatPerAZ bool
}

// SubnetSpec describes the subnets of one routing boundary.
type SubnetSpec struct {
	CidrBlocks []string
	Tags       map[string]string
}

// ConfigError reports a missing or malformed configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %q: %s", e.Field, e.Reason)
}

// TopologyResult holds the provisioned network resources. Gateway and route
// table fields are nil for the VPC-only topology.
type TopologyResult struct {
	VPC             *ec2.Vpc
	PublicSubnets   []*ec2.Subnet
	PrivateSubnets  []*ec2.Subnet
	InternetGateway *ec2.InternetGateway
	NatEIPs         []*ec2.Eip
	NatGateways     []*ec2.NatGateway

	PublicRouteTable   *ec2.RouteTable
	PrivateRouteTables []*ec2.RouteTable

	PublicAssociations  []*ec2.RouteTableAssociation
	PrivateAssociations []*ec2.RouteTableAssociation
}
