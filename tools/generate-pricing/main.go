// Command generate-pricing builds internal/pricing/data/s3_pricing.json from
// the public AmazonS3 offer files. Only the products the storage-class
// registry filters on are kept, with their OnDemand terms, merged across
// the requested regions.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

const (
	offerURL           = "https://pricing.us-east-1.amazonaws.com/offers/v1.0/aws/AmazonS3/current/%s/index.json"
	httpRequestTimeout = 5 * time.Minute
)

// offerFile is the subset of an offer file the tool rewrites. Products and
// terms are carried through as raw JSON.
type offerFile struct {
	FormatVersion   string                                `json:"formatVersion"`
	Disclaimer      string                                `json:"disclaimer"`
	OfferCode       string                                `json:"offerCode"`
	Version         string                                `json:"version"`
	PublicationDate string                                `json:"publicationDate"`
	Products        map[string]json.RawMessage            `json:"products"`
	Terms           map[string]map[string]json.RawMessage `json:"terms"`
}

type productAttributes struct {
	Attributes map[string]string `json:"attributes"`
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := newCommand(logger).Execute(); err != nil {
		logger.Error().Err(err).Msg("pricing generation failed")
		os.Exit(1)
	}
}

func newCommand(logger zerolog.Logger) *cobra.Command {
	var regions []string
	var out string

	cmd := &cobra.Command{
		Use:          "generate-pricing",
		Short:        "Extract the S3 prices the simulator needs from the AWS offer files",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd.Context(), logger, http.DefaultClient, offerURL, regions, out)
		},
	}
	cmd.Flags().StringSliceVar(&regions, "regions", []string{region.Default}, "regions to include (\"all\" for every known region)")
	cmd.Flags().StringVar(&out, "out", "internal/pricing/data/s3_pricing.json", "output file")
	return cmd
}

// generate fetches urlFormat (with the region code substituted) for each
// region. It fails fast: if any region cannot be fetched nothing is written.
func generate(ctx context.Context, logger zerolog.Logger, client *http.Client, urlFormat string, codes []string, out string) error {
	targets, err := resolveRegions(codes)
	if err != nil {
		return err
	}

	var merged *offerFile
	for _, r := range targets {
		logger.Info().Str("aws_region", r.Code).Msg("fetching offer file")
		offer, err := fetchOffer(ctx, client, fmt.Sprintf(urlFormat, r.Code))
		if err != nil {
			return fmt.Errorf("fetching %s: %w", r.Code, err)
		}
		kept, err := filterOffer(offer, r)
		if err != nil {
			return fmt.Errorf("filtering %s: %w", r.Code, err)
		}
		logger.Info().
			Str("aws_region", r.Code).
			Int("products", len(offer.Products)).
			Int("kept", len(kept.Products)).
			Msg("filtered offer file")

		if merged == nil {
			merged = kept
			continue
		}
		for sku, p := range kept.Products {
			merged.Products[sku] = p
		}
		for sku, t := range kept.Terms["OnDemand"] {
			merged.Terms["OnDemand"][sku] = t
		}
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pricing data: %w", err)
	}
	if err := writeAtomic(data, out); err != nil {
		return err
	}
	logger.Info().Str("file", out).Int("bytes", len(data)).Int("products", len(merged.Products)).Msg("wrote pricing data")
	return nil
}

func resolveRegions(codes []string) ([]region.Region, error) {
	if len(codes) == 1 && strings.EqualFold(codes[0], "all") {
		return region.All(), nil
	}
	out := make([]region.Region, 0, len(codes))
	for _, c := range codes {
		r, err := region.Parse(c)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func fetchOffer(ctx context.Context, client *http.Client, url string) (*offerFile, error) {
	ctx, cancel := context.WithTimeout(ctx, httpRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var offer offerFile
	if err := json.Unmarshal(body, &offer); err != nil {
		return nil, fmt.Errorf("invalid offer file: %w", err)
	}
	if offer.OfferCode != "AmazonS3" {
		return nil, fmt.Errorf("unexpected offer code %q", offer.OfferCode)
	}
	return &offer, nil
}

// filterOffer keeps the products matched by any registry filter in r and
// their OnDemand terms. Every filter must match at least one product so a
// renamed attribute upstream fails the run instead of shipping a gap.
func filterOffer(offer *offerFile, r region.Region) (*offerFile, error) {
	filters := storageclass.AllFilters()
	hit := make([]bool, len(filters))

	kept := &offerFile{
		FormatVersion:   offer.FormatVersion,
		Disclaimer:      offer.Disclaimer,
		OfferCode:       offer.OfferCode,
		Version:         offer.Version,
		PublicationDate: offer.PublicationDate,
		Products:        make(map[string]json.RawMessage),
		Terms:           map[string]map[string]json.RawMessage{"OnDemand": {}},
	}

	skus := make([]string, 0, len(offer.Products))
	for sku := range offer.Products {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	onDemand := offer.Terms["OnDemand"]
	for _, sku := range skus {
		var p productAttributes
		if err := json.Unmarshal(offer.Products[sku], &p); err != nil {
			return nil, fmt.Errorf("product %s: %w", sku, err)
		}
		if p.Attributes["regionCode"] != r.Code {
			continue
		}
		attrs := make(map[string]string, len(p.Attributes))
		for k, v := range p.Attributes {
			attrs[strings.ToLower(k)] = v
		}

		matched := false
		for i, f := range filters {
			if matchesFilter(attrs, f, r) {
				hit[i] = true
				matched = true
			}
		}
		if !matched {
			continue
		}
		if _, ok := onDemand[sku]; !ok {
			continue
		}
		kept.Products[sku] = offer.Products[sku]
		kept.Terms["OnDemand"][sku] = onDemand[sku]
	}

	for i, ok := range hit {
		if !ok {
			return nil, fmt.Errorf("no product matches %s", describe(filters[i]))
		}
	}
	return kept, nil
}

func matchesFilter(attrs map[string]string, filter []storageclass.Attribute, r region.Region) bool {
	for _, a := range filter {
		want := a.Value
		if a.RegionPrefixed {
			want = r.UsageType(want)
		}
		if attrs[strings.ToLower(a.Field)] != want {
			return false
		}
	}
	return true
}

func describe(filter []storageclass.Attribute) string {
	parts := make([]string, 0, len(filter))
	for _, a := range filter {
		parts = append(parts, a.Field+"="+a.Value)
	}
	return strings.Join(parts, ",")
}

// writeAtomic writes data to a temp file next to outFile and renames it
// into place.
func writeAtomic(data []byte, outFile string) error {
	dir := filepath.Dir(outFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".pricing-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("writing data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, outFile); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", outFile, err)
	}
	success = true
	return nil
}
