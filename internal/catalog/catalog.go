package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"investlab/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

//go:embed data/*
var embedded embed.FS

const (
	assetsFile  = "assets.csv"
	optionsFile = "options.csv"
	crisesFile  = "crises.yaml"
	startupFile = "startup.yaml"
)

// Catalog is the static reference data every game reads from. it's
// loaded once at startup and shared read-only
type Catalog struct {
	Assets  []domain.Asset          `json:"assets"`
	Options []domain.OptionContract `json:"options"`
	Crises  []domain.CrisisScenario `json:"crises"`
	Startup domain.StartupScript    `json:"startup"`
}

// Default is the catalog compiled into the binary
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

func Load(fsys fs.FS) (*Catalog, error) {
	assets, err := loadAssets(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	options, err := loadOptions(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load options: %w", err)
	}

	crises := struct {
		Crises []domain.CrisisScenario `yaml:"crises"`
	}{}
	if err := loadYaml(fsys, crisesFile, &crises); err != nil {
		return nil, err
	}
	startup := domain.StartupScript{}
	if err := loadYaml(fsys, startupFile, &startup); err != nil {
		return nil, err
	}

	c := &Catalog{
		Assets:  assets,
		Options: options,
		Crises:  crises.Crises,
		Startup: startup,
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return c, nil
}

func (c Catalog) Asset(id string) (domain.Asset, error) {
	for _, a := range c.Assets {
		if a.ID == id || a.Symbol == id {
			return a, nil
		}
	}
	return domain.Asset{}, fmt.Errorf("%w: %s", domain.ErrUnknownAsset, id)
}

func (c Catalog) Crisis(id string) (domain.CrisisScenario, error) {
	for _, cr := range c.Crises {
		if cr.ID == id {
			return cr, nil
		}
	}
	return domain.CrisisScenario{}, fmt.Errorf("%w: %s", domain.ErrUnknownScenario, id)
}

// Spot is the reference price of the chain's underlying
func (c Catalog) Spot() float64 {
	if len(c.Options) == 0 {
		return 0
	}
	return c.Options[0].ReferencePrice
}

type correlations map[string]float64

// UnmarshalCSV reads "MSFT:0.7|SPY:0.8"
func (c *correlations) UnmarshalCSV(s string) error {
	out := correlations{}
	s = strings.TrimSpace(s)
	if s == "" {
		*c = out
		return nil
	}
	for _, pair := range strings.Split(s, "|") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad correlation entry %q", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return fmt.Errorf("bad correlation value in %q: %w", pair, err)
		}
		out[strings.TrimSpace(parts[0])] = v
	}
	*c = out
	return nil
}

type assetRow struct {
	ID             string       `csv:"id" validate:"required"`
	Symbol         string       `csv:"symbol" validate:"required"`
	Name           string       `csv:"name"`
	Sector         string       `csv:"sector" validate:"required"`
	Type           string       `csv:"type" validate:"oneof=stock bond etf commodity crypto"`
	Risk           float64      `csv:"risk" validate:"gte=0,lte=10"`
	ExpectedReturn float64      `csv:"expectedReturn"`
	Price          float64      `csv:"price" validate:"gt=0"`
	Correlation    correlations `csv:"correlation"`
}

type optionRow struct {
	ID             string  `csv:"id" validate:"required"`
	Type           string  `csv:"type" validate:"oneof=call put"`
	Strike         float64 `csv:"strike" validate:"gt=0"`
	Premium        float64 `csv:"premium" validate:"gt=0"`
	Expiration     string  `csv:"expiration"`
	Underlying     string  `csv:"underlying" validate:"required"`
	ReferencePrice float64 `csv:"referencePrice" validate:"gt=0"`
}

func loadAssets(fsys fs.FS) ([]domain.Asset, error) {
	data, err := fs.ReadFile(fsys, assetsFile)
	if err != nil {
		return nil, err
	}
	rows := []assetRow{}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, err
	}

	v := validator.New()
	assets := make([]domain.Asset, 0, len(rows))
	for _, r := range rows {
		if err := v.Struct(r); err != nil {
			return nil, fmt.Errorf("asset %s: %w", r.ID, err)
		}
		for symbol, corr := range r.Correlation {
			if corr < -1 || corr > 1 {
				return nil, fmt.Errorf("asset %s: correlation with %s out of range: %f", r.ID, symbol, corr)
			}
		}
		assets = append(assets, domain.Asset{
			ID:             r.ID,
			Symbol:         r.Symbol,
			Name:           r.Name,
			Sector:         r.Sector,
			Type:           domain.AssetType(r.Type),
			Risk:           r.Risk,
			ExpectedReturn: r.ExpectedReturn,
			Price:          r.Price,
			Correlation:    r.Correlation,
		})
	}
	return assets, nil
}

func loadOptions(fsys fs.FS) ([]domain.OptionContract, error) {
	data, err := fs.ReadFile(fsys, optionsFile)
	if err != nil {
		return nil, err
	}
	rows := []optionRow{}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, err
	}

	v := validator.New()
	contracts := make([]domain.OptionContract, 0, len(rows))
	for _, r := range rows {
		if err := v.Struct(r); err != nil {
			return nil, fmt.Errorf("option %s: %w", r.ID, err)
		}
		contract := domain.OptionContract{
			ID:               r.ID,
			Type:             domain.OptionType(r.Type),
			Strike:           r.Strike,
			Premium:          r.Premium,
			ExpirationLabel:  r.Expiration,
			UnderlyingSymbol: r.Underlying,
			ReferencePrice:   r.ReferencePrice,
		}
		// a premium under intrinsic would let a buyer profit by closing
		// straight away
		if intrinsic := contract.IntrinsicValue(contract.ReferencePrice); contract.Premium < intrinsic {
			return nil, fmt.Errorf("option %s: premium %f below intrinsic value %f", r.ID, contract.Premium, intrinsic)
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

func loadYaml(fsys fs.FS, name string, out interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (c Catalog) validate() error {
	v := validator.New()
	seen := map[string]bool{}
	for _, cr := range c.Crises {
		if err := v.Struct(cr); err != nil {
			return fmt.Errorf("crisis %s: %w", cr.ID, err)
		}
		if seen[cr.ID] {
			return fmt.Errorf("duplicate crisis %s", cr.ID)
		}
		seen[cr.ID] = true
	}
	if err := v.Struct(c.Startup); err != nil {
		return fmt.Errorf("startup script: %w", err)
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("no assets")
	}
	if len(c.Options) == 0 {
		return fmt.Errorf("no option contracts")
	}
	return nil
}
