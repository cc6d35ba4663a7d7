package main

import (
	"context"
	"fmt"

	"github.com/pwallin/vpcctl/infra"
)

func runStackCommand(ctx context.Context, cmd, stateDir string) error {
	netCfg := cfg.toNetworkConfig()

	switch cmd {
	case "preview":
		return infra.Preview(ctx, netCfg, stateDir)
	case "up":
		return infra.Up(ctx, netCfg, stateDir)
	case "down":
		return infra.Down(ctx, netCfg, stateDir)
	case "status":
		return runStatus(ctx, netCfg, stateDir)
	}
	return fmt.Errorf("unknown stack command: %s", cmd)
}

// Output order is fixed so repeated status runs are diffable.
var statusOutputs = []struct {
	key   string
	label string
}{
	{"vpcId", "VPC"},
	{"publicSubnetIds", "Public subnet"},
	{"privateSubnetIds", "Private subnet"},
	{"internetGatewayId", "Internet gateway"},
	{"natGatewayIds", "NAT gateway"},
	{"publicRouteTableId", "Public route table"},
	{"privateRouteTableIds", "Private route table"},
}

// runStatus reads stack outputs and renders the materialized topology.
func runStatus(ctx context.Context, netCfg *infra.NetworkConfig, stateDir string) error {
	outputs, err := infra.Outputs(ctx, netCfg, stateDir)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		fmt.Println("No materialized topology. Run 'vpcctl up' first.")
		return nil
	}

	var rows [][2]string
	for _, o := range statusOutputs {
		value, ok := outputs[o.key]
		if !ok {
			continue
		}
		switch v := value.Value.(type) {
		case string:
			rows = append(rows, [2]string{o.label, v})
		case []interface{}:
			for i, item := range v {
				id, ok := item.(string)
				if !ok {
					continue
				}
				rows = append(rows, [2]string{fmt.Sprintf("%s %d", o.label, i), id})
			}
		}
	}

	PrintTopologyTable(cfg.Name, rows)
	return nil
}
