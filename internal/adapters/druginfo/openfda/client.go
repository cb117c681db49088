package openfda

import (
	"context"
	"net/url"
	"strings"
	"time"

	"medicine-reminder/internal/platform/httpclient"
	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/ports/druginfo"
)

const DefaultBaseURL = "https://api.fda.gov"

type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  logger.Logger
}

// Client consulta las fichas de openFDA. Cualquier fallo upstream se reporta
// como druginfo.ErrNotFound; el detalle queda en el log.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

var _ druginfo.Lookup = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.UserAgent = "medicine-reminder"

	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Client{http: hc, log: log.With(logger.Fields{"component": "openfda"})}, nil
}

type labelResponse struct {
	Results []labelResult `json:"results"`
}

type labelResult struct {
	OpenFDA struct {
		BrandName     []string `json:"brand_name"`
		GenericName   []string `json:"generic_name"`
		SubstanceName []string `json:"substance_name"`
	} `json:"openfda"`

	Purpose                 []string `json:"purpose"`
	IndicationsAndUsage     []string `json:"indications_and_usage"`
	Warnings                []string `json:"warnings"`
	WarningsAndCautions     []string `json:"warnings_and_cautions"`
	DosageAndAdministration []string `json:"dosage_and_administration"`
	ActiveIngredient        []string `json:"active_ingredient"`
}

type ndcResponse struct {
	Results []struct {
		BrandName   string `json:"brand_name"`
		GenericName string `json:"generic_name"`
	} `json:"results"`
}

// ByName busca por marca o genérico; si openFDA responde no-2xx reintenta con búsqueda libre.
func (c *Client) ByName(ctx context.Context, query string) (druginfo.InfoRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return druginfo.InfoRecord{}, druginfo.ErrNotFound
	}
	q := escape(query)

	var out labelResponse
	strict := "/drug/label.json?search=openfda.brand_name:%22" + q + "%22+openfda.generic_name:%22" + q + "%22&limit=1"
	if err := c.http.GetJSON(ctx, strict, nil, &out); err != nil {
		c.log.Debug("strict label search failed, trying lenient", logger.Fields{"query": query, "err": err})

		out = labelResponse{}
		lenient := "/drug/label.json?search=" + q + "&limit=1"
		if err := c.http.GetJSON(ctx, lenient, nil, &out); err != nil {
			c.log.Info("label search failed", logger.Fields{"query": query, "err": err})
			return druginfo.InfoRecord{}, druginfo.ErrNotFound
		}
	}

	if len(out.Results) == 0 {
		return druginfo.InfoRecord{}, druginfo.ErrNotFound
	}
	return toRecord(out.Results[0], query), nil
}

// ByBarcode resuelve el código contra el catálogo NDC y busca la ficha por el nombre obtenido.
// Si algo falla se intenta con el código como nombre.
func (c *Client) ByBarcode(ctx context.Context, code string) (druginfo.InfoRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return druginfo.InfoRecord{}, druginfo.ErrNotFound
	}
	q := escape(code)

	var out ndcResponse
	path := "/drug/ndc.json?search=product_ndc:%22" + q + "%22+package_ndc:%22" + q + "%22&limit=1"
	err := c.http.GetJSON(ctx, path, nil, &out)
	switch {
	case err != nil:
		c.log.Debug("ndc search failed", logger.Fields{"barcode": code, "err": err})
	case len(out.Results) == 0:
		c.log.Debug("ndc search empty", logger.Fields{"barcode": code})
	default:
		name := firstNonEmpty(out.Results[0].BrandName, out.Results[0].GenericName)
		if name != "" {
			rec, err := c.ByName(ctx, name)
			if err == nil {
				return rec, nil
			}
			c.log.Debug("label search by ndc name missed", logger.Fields{"barcode": code, "name": name})
		}
	}

	return c.ByName(ctx, code)
}

func toRecord(r labelResult, query string) druginfo.InfoRecord {
	ingredients := r.OpenFDA.SubstanceName
	if len(ingredients) == 0 {
		ingredients = r.ActiveIngredient
	}

	rec := druginfo.InfoRecord{
		Name:                    firstNonEmpty(first(r.OpenFDA.BrandName), first(r.OpenFDA.GenericName)),
		Purpose:                 firstNonEmpty(first(r.Purpose), first(r.IndicationsAndUsage)),
		Warnings:                firstNonEmpty(first(r.Warnings), first(r.WarningsAndCautions)),
		DosageAndAdministration: first(r.DosageAndAdministration),
		ActiveIngredients:       append([]string(nil), ingredients...),
	}
	return druginfo.Normalize(rec, query)
}

// escape: espacios como %20; un '+' literal separa términos en search.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
