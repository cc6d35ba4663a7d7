package infra

import (
	"context"
	"log"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optimport"
)

// DetectExistingResources queries the EC2 API in parallel and returns
// import specs for any topology resources that already exist, matched by
// their derived Name tag.
func DetectExistingResources(ctx context.Context, cfg *NetworkConfig) []*optimport.ImportResource {
	plan, err := BuildPlan(cfg)
	if err != nil {
		return nil
	}

	client, err := newEC2Client(ctx, cfg)
	if err != nil {
		log.Printf("[import] skipping detection: %v", err)
		return nil
	}

	var resources []*optimport.ImportResource
	var mu sync.Mutex
	var wg sync.WaitGroup

	add := func(typ, name, id string) {
		mu.Lock()
		resources = append(resources, &optimport.ImportResource{
			Type: typ,
			Name: name,
			ID:   id,
		})
		mu.Unlock()
		log.Printf("[import] found %s: %s", name, id)
	}

	// VPC
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, err := client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
			Filters: nameTagFilter(plan.VPCName),
		})
		if err != nil || len(out.Vpcs) == 0 {
			return
		}
		add("aws:ec2/vpc:Vpc", plan.VPCName, aws.ToString(out.Vpcs[0].VpcId))
	}()

	// Subnets, matched back to their plan entry by Name tag
	allSubnets := append(append([]SubnetPlan{}, plan.PublicSubnets...), plan.PrivateSubnets...)
	if len(allSubnets) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names := make([]string, 0, len(allSubnets))
			for _, p := range allSubnets {
				names = append(names, p.Name)
			}
			out, err := client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
				Filters: []ec2types.Filter{{
					Name:   aws.String("tag:Name"),
					Values: names,
				}},
			})
			if err != nil {
				return
			}
			for _, s := range out.Subnets {
				if name := nameTag(s.Tags); name != "" {
					add("aws:ec2/subnet:Subnet", name, aws.ToString(s.SubnetId))
				}
			}
		}()
	}

	if !plan.VPCOnly {
		// Internet gateway
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := client.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
				Filters: nameTagFilter(plan.InternetGatewayName),
			})
			if err != nil || len(out.InternetGateways) == 0 {
				return
			}
			add("aws:ec2/internetGateway:InternetGateway", plan.InternetGatewayName,
				aws.ToString(out.InternetGateways[0].InternetGatewayId))
		}()

		// NAT gateways
		wg.Add(1)
		go func() {
			defer wg.Done()
			names := make([]string, 0, len(plan.Nats))
			for _, nat := range plan.Nats {
				names = append(names, nat.Name)
			}
			out, err := client.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
				Filter: []ec2types.Filter{{
					Name:   aws.String("tag:Name"),
					Values: names,
				}},
			})
			if err != nil {
				return
			}
			for _, gw := range out.NatGateways {
				if gw.State != ec2types.NatGatewayStateAvailable && gw.State != ec2types.NatGatewayStatePending {
					continue
				}
				if name := nameTag(gw.Tags); name != "" {
					add("aws:ec2/natGateway:NatGateway", name, aws.ToString(gw.NatGatewayId))
				}
			}
		}()

		// Route tables
		wg.Add(1)
		go func() {
			defer wg.Done()
			names := append([]string{plan.PublicRouteTableName}, plan.PrivateRouteTableNames...)
			out, err := client.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
				Filters: []ec2types.Filter{{
					Name:   aws.String("tag:Name"),
					Values: names,
				}},
			})
			if err != nil {
				return
			}
			for _, rt := range out.RouteTables {
				if name := nameTag(rt.Tags); name != "" {
					add("aws:ec2/routeTable:RouteTable", name, aws.ToString(rt.RouteTableId))
				}
			}
		}()
	}

	wg.Wait()

	if len(resources) > 0 {
		log.Printf("[import] detected %d existing resources", len(resources))
	}
	return resources
}

func newEC2Client(ctx context.Context, cfg *NetworkConfig) (*ec2.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return ec2.NewFromConfig(awsCfg), nil
}

func nameTagFilter(name string) []ec2types.Filter {
	return []ec2types.Filter{{
		Name:   aws.String("tag:Name"),
		Values: []string{name},
	}}
}

func nameTag(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == "Name" {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
