package infra

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// provisionNetwork declares the network resources described by the plan.
// It only computes the desired resource graph; the engine owns creation
// order, rollback, and state.
func provisionNetwork(ctx *pulumi.Context, cfg *NetworkConfig, opts ...pulumi.ResourceOption) (*TopologyResult, error) {
	plan, err := BuildPlan(cfg)
	if err != nil {
		return nil, err
	}

	vpc, err := ec2.NewVpc(ctx, plan.VPCName, &ec2.VpcArgs{
		CidrBlock:          pulumi.String(plan.CidrBlock),
		EnableDnsSupport:   pulumi.Bool(true),
		EnableDnsHostnames: pulumi.Bool(true),
		Tags:               tagMap(withNameTag(nil, plan.VPCName)),
	}, opts...)
	if err != nil {
		return nil, err
	}

	result := &TopologyResult{VPC: vpc}
	if plan.VPCOnly {
		return result, nil
	}

	result.PublicSubnets, err = provisionSubnets(ctx, vpc, plan.PublicSubnets, true, opts...)
	if err != nil {
		return nil, err
	}
	result.PrivateSubnets, err = provisionSubnets(ctx, vpc, plan.PrivateSubnets, false, opts...)
	if err != nil {
		return nil, err
	}

	igw, err := ec2.NewInternetGateway(ctx, plan.InternetGatewayName, &ec2.InternetGatewayArgs{
		VpcId: vpc.ID(),
		Tags:  tagMap(withNameTag(nil, plan.InternetGatewayName)),
	}, opts...)
	if err != nil {
		return nil, err
	}
	result.InternetGateway = igw

	for _, nat := range plan.Nats {
		eip, err := ec2.NewEip(ctx, nat.EIPName, &ec2.EipArgs{
			Domain: pulumi.String("vpc"),
			Tags:   tagMap(withNameTag(nil, nat.EIPName)),
		}, opts...)
		if err != nil {
			return nil, err
		}
		result.NatEIPs = append(result.NatEIPs, eip)

		gw, err := ec2.NewNatGateway(ctx, nat.Name, &ec2.NatGatewayArgs{
			AllocationId: eip.ID(),
			SubnetId:     result.PublicSubnets[nat.PublicSubnetIndex].ID(),
			Tags:         tagMap(withNameTag(nil, nat.Name)),
		}, opts...)
		if err != nil {
			return nil, err
		}
		result.NatGateways = append(result.NatGateways, gw)
	}

	result.PublicRouteTable, err = ec2.NewRouteTable(ctx, plan.PublicRouteTableName, &ec2.RouteTableArgs{
		VpcId: vpc.ID(),
		Routes: ec2.RouteTableRouteArray{
			&ec2.RouteTableRouteArgs{
				CidrBlock: pulumi.String("0.0.0.0/0"),
				GatewayId: igw.ID(),
			},
		},
		Tags: tagMap(withNameTag(nil, plan.PublicRouteTableName)),
	}, opts...)
	if err != nil {
		return nil, err
	}

	for i, name := range plan.PrivateRouteTableNames {
		rt, err := ec2.NewRouteTable(ctx, name, &ec2.RouteTableArgs{
			VpcId: vpc.ID(),
			Routes: ec2.RouteTableRouteArray{
				&ec2.RouteTableRouteArgs{
					CidrBlock:    pulumi.String("0.0.0.0/0"),
					NatGatewayId: result.NatGateways[i].ID(),
				},
			},
			Tags: tagMap(withNameTag(nil, name)),
		}, opts...)
		if err != nil {
			return nil, err
		}
		result.PrivateRouteTables = append(result.PrivateRouteTables, rt)
	}

	for i, name := range plan.PublicAssociationNames {
		assoc, err := ec2.NewRouteTableAssociation(ctx, name, &ec2.RouteTableAssociationArgs{
			SubnetId:     result.PublicSubnets[i].ID(),
			RouteTableId: result.PublicRouteTable.ID(),
		}, opts...)
		if err != nil {
			return nil, err
		}
		result.PublicAssociations = append(result.PublicAssociations, assoc)
	}

	for i, name := range plan.PrivateAssociationNames {
		table := result.PrivateRouteTables[plan.PrivateTableIndex(i)]
		assoc, err := ec2.NewRouteTableAssociation(ctx, name, &ec2.RouteTableAssociationArgs{
			SubnetId:     result.PrivateSubnets[i].ID(),
			RouteTableId: table.ID(),
		}, opts...)
		if err != nil {
			return nil, err
		}
		result.PrivateAssociations = append(result.PrivateAssociations, assoc)
	}

	return result, nil
}

func provisionSubnets(ctx *pulumi.Context, vpc *ec2.Vpc, plans []SubnetPlan, public bool, opts ...pulumi.ResourceOption) ([]*ec2.Subnet, error) {
	subnets := make([]*ec2.Subnet, 0, len(plans))
	for _, p := range plans {
		subnet, err := ec2.NewSubnet(ctx, p.Name, &ec2.SubnetArgs{
			VpcId:               vpc.ID(),
			CidrBlock:           pulumi.String(p.CidrBlock),
			AvailabilityZone:    pulumi.String(p.AvailabilityZone),
			MapPublicIpOnLaunch: pulumi.Bool(public),
			Tags:                tagMap(p.Tags),
		}, opts...)
		if err != nil {
			return nil, err
		}
		subnets = append(subnets, subnet)
	}
	return subnets, nil
}

func tagMap(tags map[string]string) pulumi.StringMap {
	m := pulumi.StringMap{}
	for k, v := range tags {
		m[k] = pulumi.String(v)
	}
	return m
}
