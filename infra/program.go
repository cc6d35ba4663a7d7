package infra

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// DefineInfrastructure is the Pulumi program that declares the network
// topology for the given configuration.
func DefineInfrastructure(cfg *NetworkConfig) pulumi.RunFunc {
	return func(ctx *pulumi.Context) error {
		topo, err := provisionNetwork(ctx, cfg)
		if err != nil {
			return err
		}
		exportTopology(ctx, topo)
		return nil
	}
}

// exportTopology publishes resource identifiers as stack outputs so
// `vpcctl status` can read them back without touching the cloud.
func exportTopology(ctx *pulumi.Context, topo *TopologyResult) {
	ctx.Export("vpcId", topo.VPC.ID())

	if topo.InternetGateway == nil {
		return
	}

	ctx.Export("publicSubnetIds", subnetIDs(topo.PublicSubnets))
	ctx.Export("privateSubnetIds", subnetIDs(topo.PrivateSubnets))
	ctx.Export("internetGatewayId", topo.InternetGateway.ID())

	natIDs := pulumi.StringArray{}
	for _, gw := range topo.NatGateways {
		natIDs = append(natIDs, gw.ID())
	}
	ctx.Export("natGatewayIds", natIDs)

	ctx.Export("publicRouteTableId", topo.PublicRouteTable.ID())

	privateTableIDs := pulumi.StringArray{}
	for _, rt := range topo.PrivateRouteTables {
		privateTableIDs = append(privateTableIDs, rt.ID())
	}
	ctx.Export("privateRouteTableIds", privateTableIDs)
}

func subnetIDs(subnets []*ec2.Subnet) pulumi.StringArray {
	ids := pulumi.StringArray{}
	for _, s := range subnets {
		ids = append(ids, s.ID())
	}
	return ids
}
