package main

import (
	"carrier-match-service/internal/adapters/repositories"
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/ports"
	"carrier-match-service/internal/services"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type searchFlags struct {
	originCity  string
	originState string
	originZip   string
	destCity    string
	destState   string
	destZip     string
	equipment   string
	ventureID   int
	seedFile    string
	limit       int
	outreach    int
	asJSON      bool
}

func searchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank carriers for a shipment and print both buckets",
		Long: `Rank the active carrier pool against a shipment.

Examples:
  matchtool search --origin-zip 76102 --origin-state TX --dest-zip 30303 --equipment "Dry Van"
  matchtool search --seed data/seeds/carriers.json --origin-state TX --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.originCity, "origin-city", "", "pickup city")
	cmd.Flags().StringVar(&f.originState, "origin-state", "", "pickup state code")
	cmd.Flags().StringVar(&f.originZip, "origin-zip", "", "pickup postal code")
	cmd.Flags().StringVar(&f.destCity, "dest-city", "", "drop city")
	cmd.Flags().StringVar(&f.destState, "dest-state", "", "drop state code")
	cmd.Flags().StringVar(&f.destZip, "dest-zip", "", "drop postal code")
	cmd.Flags().StringVarP(&f.equipment, "equipment", "e", "", "required equipment type")
	cmd.Flags().IntVar(&f.ventureID, "venture", 0, "restrict to one venture")
	cmd.Flags().StringVar(&f.seedFile, "seed", "", "search a JSON seed file in memory instead of the database")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", services.DefaultResultCap, "rows per bucket")
	cmd.Flags().IntVar(&f.outreach, "outreach", 0, "also list up to N carriers reachable by email, in outreach order")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, f searchFlags) error {
	var (
		carriers ports.CarrierRepository
		loads    ports.LoadHistoryRepository
	)

	if f.seedFile != "" {
		seed, err := repositories.ReadSeedFile(f.seedFile)
		if err != nil {
			return err
		}
		store, err := repositories.NewMemoryStoreFromSeed(seed)
		if err != nil {
			return err
		}
		carriers, loads = store, store
	} else {
		conn, dialect, err := openStore()
		if err != nil {
			return err
		}
		defer conn.Close()
		carriers = repositories.NewSQLCarrierRepository(conn, dialect)
		loads = repositories.NewSQLLoadHistoryRepository(conn, dialect)
	}

	req := domain.ShipmentRequest{
		OriginCity:            f.originCity,
		OriginState:           f.originState,
		OriginPostalCode:      f.originZip,
		DestinationCity:       f.destCity,
		DestinationState:      f.destState,
		DestinationPostalCode: f.destZip,
	}
	if strings.TrimSpace(f.equipment) != "" {
		req.EquipmentType = &f.equipment
	}
	if f.ventureID > 0 {
		req.VentureID = &f.ventureID
	}

	search := services.NewCarrierSearch(carriers, loads, nil, services.SearchConfig{ResultCap: f.limit})
	res, err := search.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if err := printResult(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if f.outreach > 0 {
		printOutreach(cmd.OutOrStdout(), res.OutreachTargets(f.outreach))
	}
	return nil
}

func printResult(out io.Writer, res *domain.SearchResult) error {
	fmt.Fprintf(out, "%s -> %s", res.Query.Origin, res.Query.Destination)
	if res.Query.EquipmentType != nil {
		fmt.Fprintf(out, " (%s)", *res.Query.EquipmentType)
	}
	fmt.Fprintf(out, "\npool=%d excluded=%d\n", res.PoolSize, res.Excluded)

	sections := []struct {
		title string
		total int
		rows  []domain.CarrierCandidate
	}{
		{"Recommended", res.TotalRecommended, res.Recommended},
		{"Prospects", res.TotalProspects, res.Prospects},
	}

	for _, s := range sections {
		fmt.Fprintf(out, "\n%s (%d of %d)\n", s.title, len(s.rows), s.total)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCARRIER\tSCORE\tLANE\tON-TIME\tEQUIP\tPROX\tFLAGS")
		for _, c := range s.rows {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
				c.Carrier.ID, c.Carrier.Name, c.CompositeScore, c.LaneScoreRaw, c.OnTimeScoreRaw,
				c.Scores.EquipmentMatch, c.Scores.OriginProximity, flags(c),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func printOutreach(out io.Writer, targets []domain.CarrierCandidate) {
	fmt.Fprintf(out, "\nOutreach (%d)\n", len(targets))
	for i, c := range targets {
		fmt.Fprintf(out, "%d. %s <%s>\n", i+1, c.Carrier.Name, domain.Text(c.Carrier.Email))
	}
}

func flags(c domain.CarrierCandidate) string {
	var f []string
	if c.HasLaneHistory {
		f = append(f, "lane")
	}
	if c.IsNearOrigin {
		f = append(f, "near")
	}
	if c.IsNewCarrier {
		f = append(f, "new")
	}
	if c.History.RecentlyActive {
		f = append(f, "active")
	}
	return strings.Join(f, ",")
}
