package domain

import (
	"time"
)

// DatePreset é um intervalo relativo reconhecido pela API de insights da Meta
type DatePreset string

const (
	PresetToday     DatePreset = "today"
	PresetYesterday DatePreset = "yesterday"
	PresetLast7d    DatePreset = "last_7d"
	PresetLast14d   DatePreset = "last_14d"
	PresetLast28d   DatePreset = "last_28d"
	PresetLast30d   DatePreset = "last_30d"
	PresetLast90d   DatePreset = "last_90d"
	PresetThisMonth DatePreset = "this_month"
	PresetLastMonth DatePreset = "last_month"
	PresetThisYear  DatePreset = "this_year"
	PresetLastYear  DatePreset = "last_year"
	PresetThisWeek  DatePreset = "this_week"
	PresetLastWeek  DatePreset = "last_week"
)

var knownPresets = map[DatePreset]struct{}{
	PresetToday: {}, PresetYesterday: {}, PresetLast7d: {}, PresetLast14d: {},
	PresetLast28d: {}, PresetLast30d: {}, PresetLast90d: {}, PresetThisMonth: {},
	PresetLastMonth: {}, PresetThisYear: {}, PresetLastYear: {}, PresetThisWeek: {},
	PresetLastWeek: {},
}

func (p DatePreset) IsValid() bool {
	_, ok := knownPresets[p]
	return ok
}

// Breakdown define o tamanho do bucket de tempo dos insights
type Breakdown string

const (
	BreakdownDay   Breakdown = "day"
	BreakdownWeek  Breakdown = "week"
	BreakdownMonth Breakdown = "month"
)

// TimeIncrement converte o breakdown para o parâmetro time_increment da Meta
func (b Breakdown) TimeIncrement() int {
	switch b {
	case BreakdownWeek:
		return 7
	case BreakdownMonth:
		return 28
	default:
		return 1
	}
}

// InsightSegment recorta os insights por uma dimensão de público ou de veiculação
type InsightSegment string

const (
	SegmentAgeGender InsightSegment = "age_gender"
	SegmentDevice    InsightSegment = "device"
	SegmentPlacement InsightSegment = "placement"
)

// MetaBreakdowns converte o segmento para o parâmetro breakdowns da Meta
func (s InsightSegment) MetaBreakdowns() string {
	switch s {
	case SegmentAgeGender:
		return "age,gender"
	case SegmentDevice:
		return "device_platform"
	case SegmentPlacement:
		return "publisher_platform,platform_position"
	}
	return ""
}

type InsightLevel string

const (
	InsightLevelAccount  InsightLevel = "account"
	InsightLevelCampaign InsightLevel = "campaign"
)

// DateRange é um intervalo explícito since/until, inclusivo
type DateRange struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// InsightQuery descreve uma consulta de insights. Preset e Range são mutuamente exclusivos.
type InsightQuery struct {
	Preset    DatePreset
	Range     *DateRange
	Breakdown Breakdown
	Level     InsightLevel
	Segment   InsightSegment
}

func (q InsightQuery) Validate() error {
	if q.Preset != "" && q.Range != nil {
		return NewValidationError("date_preset", "date_preset and time_range are mutually exclusive")
	}

	if q.Preset == "" && q.Range == nil {
		return NewValidationError("date_preset", "either date_preset or time_range is required")
	}

	if q.Preset != "" && !q.Preset.IsValid() {
		return NewValidationError("date_preset", "unknown date preset "+string(q.Preset))
	}

	if q.Range != nil {
		if q.Range.Since.IsZero() || q.Range.Until.IsZero() {
			return NewValidationError("time_range", "since and until are required")
		}
		if q.Range.Until.Before(q.Range.Since) {
			return NewValidationError("time_range", "until must not be before since")
		}
	}

	switch q.Breakdown {
	case "", BreakdownDay, BreakdownWeek, BreakdownMonth:
	default:
		return NewValidationError("breakdown", "must be one of day, week, month")
	}

	switch q.Level {
	case "", InsightLevelAccount, InsightLevelCampaign:
	default:
		return NewValidationError("level", "must be account or campaign")
	}

	switch q.Segment {
	case "", SegmentAgeGender, SegmentDevice, SegmentPlacement:
	default:
		return NewValidationError("segment", "must be one of age_gender, device, placement")
	}

	return nil
}

// InsightQueryRequest é o corpo/query string aceito pelas rotas de insights. Datas no formato 2006-01-02.
type InsightQueryRequest struct {
	DatePreset string `json:"date_preset"`
	Since      string `json:"since"`
	Until      string `json:"until"`
	Breakdown  string `json:"breakdown"`
}

// ToQuery converte a requisição e valida o resultado
func (r InsightQueryRequest) ToQuery() (InsightQuery, error) {
	query := InsightQuery{
		Preset:    DatePreset(r.DatePreset),
		Breakdown: Breakdown(r.Breakdown),
	}

	if r.Since != "" || r.Until != "" {
		dateRange, err := ParseDateRange(r.Since, r.Until)
		if err != nil {
			return InsightQuery{}, err
		}
		query.Range = dateRange
	}

	if err := query.Validate(); err != nil {
		return InsightQuery{}, err
	}

	return query, nil
}

// WithDefaultPreset usa o preset informado quando a requisição não traz período algum
func (r InsightQueryRequest) WithDefaultPreset(preset DatePreset) InsightQueryRequest {
	if r.DatePreset == "" && r.Since == "" && r.Until == "" {
		r.DatePreset = string(preset)
	}
	return r
}

func ParseDateRange(since, until string) (*DateRange, error) {
	start, err := time.Parse(time.DateOnly, since)
	if err != nil {
		return nil, NewValidationError("since", "must be a date in YYYY-MM-DD format")
	}

	end, err := time.Parse(time.DateOnly, until)
	if err != nil {
		return nil, NewValidationError("until", "must be a date in YYYY-MM-DD format")
	}

	if end.Before(start) {
		return nil, NewValidationError("time_range", "until must not be before since")
	}

	return &DateRange{Since: start, Until: end}, nil
}

type AggregateRequest struct {
	AccountIDs []string `json:"account_ids"`
	InsightQueryRequest
}

type SyncManyRequest struct {
	AccountIDs []string `json:"account_ids"`
}

// TopCampaignsRequest é o corpo de POST /v1/insights/top-campaigns
type TopCampaignsRequest struct {
	AccountIDs []string `json:"account_ids"`
	SortBy     string   `json:"sort_by"`
	Limit      int      `json:"limit"`
	InsightQueryRequest
}

// BreakdownsRequest é o corpo de POST /v1/insights/breakdowns
type BreakdownsRequest struct {
	AccountIDs []string `json:"account_ids"`
	Metric     string   `json:"metric"`
	InsightQueryRequest
}
