package main

import (
	"github.com/spf13/cobra"

	"github.com/rshade/s3-cost-simulator/internal/pricing"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/render"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

func (a *app) classesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List storage classes, their operations and allowed transitions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			specs := storageclass.All()
			if a.format != render.FormatTable {
				return render.Result(a.out, a.format, specs, nil)
			}
			render.Classes(a.out, specs)
			return nil
		},
	}
}

func (a *app) regionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List known regions and whether the embedded price list covers them",
		Long: `List every region the simulator can address. Regions marked as not
embedded have no prices in the bundled price list; price them with
--pricing-source aws.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := pricing.NewClient(a.logger)
			if err != nil {
				return err
			}
			regions := render.RegionEntries(region.All(), client.Metadata().Regions)
			if a.format != render.FormatTable {
				return render.Result(a.out, a.format, regions, nil)
			}
			render.Regions(a.out, regions)
			return nil
		},
	}
}
