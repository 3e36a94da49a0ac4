package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service loads property snapshots and runs the compiler over them. The
// redis cache is optional; with a nil client every request computes fresh.
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *slog.Logger

	assets    AssetRepository
	schedules CustomScheduleRepository
	rules     PropertySchedulingRuleRepository
	templates ScheduleTemplateRepository

	defaultTime TimeOfDay
	cacheTTL    time.Duration
}

func NewService(db *gorm.DB, redisClient *redis.Client, logger *slog.Logger, defaultTime TimeOfDay, cacheTTL time.Duration) *Service {
	if defaultTime == "" {
		defaultTime = DefaultServiceTime
	}
	return &Service{
		db:          db,
		redis:       redisClient,
		logger:      logger,
		assets:      NewAssetRepository(db),
		schedules:   NewCustomScheduleRepository(db),
		rules:       NewRuleRepository(db),
		templates:   NewTemplateRepository(db),
		defaultTime: defaultTime,
		cacheTTL:    cacheTTL,
	}
}

// CacheKey is the redis key for a compiled due-set. Shared with the worker's
// precompute handler so the API reads what the worker warms.
func CacheKey(propertyID uuid.UUID, date time.Time) string {
	return "schedule:" + propertyID.String() + ":" + DateOnly(date).Format(DateLayout)
}

// ComputeForDate returns the due-set for one property and date, serving from
// the cache when a precomputed result exists. Compilation is deterministic,
// so a cached result is byte-equivalent to a fresh one.
func (s *Service) ComputeForDate(ctx context.Context, companyID, propertyID uuid.UUID, date time.Time) (*Result, error) {
	date = DateOnly(date)

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, CacheKey(propertyID, date)).Bytes(); err == nil {
			var cached Result
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	snap, err := s.LoadSnapshot(ctx, companyID, propertyID)
	if err != nil {
		return nil, err
	}

	result := ComputeScheduleForDate(*snap, date)
	for _, w := range result.Warnings {
		s.logger.Warn("schedule warning",
			"property_id", propertyID,
			"code", w.Code,
			"asset_id", w.AssetID,
			"rule_id", w.RuleID,
			"message", w.Message,
		)
	}

	if s.redis != nil && s.cacheTTL > 0 {
		if data, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, CacheKey(propertyID, date), data, s.cacheTTL).Err()
		}
	}

	return &result, nil
}

// LoadSnapshot fetches and validates every rule source for the property.
// Raw jsonb configs are decoded exactly once here; anything malformed
// becomes a snapshot warning and the offending source degrades per the
// error-handling policy.
func (s *Service) LoadSnapshot(ctx context.Context, companyID, propertyID uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{
		PropertyID: propertyID,
		CompanyID:  companyID,
		Custom:     make(map[uuid.UUID]CustomSchedule),
	}

	assets, err := s.assets.ListAssetsForProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	for _, a := range assets {
		snap.Assets = append(snap.Assets, s.convertAsset(a, snap))
	}

	schedules, err := s.schedules.ListActiveForProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing custom schedules: %w", err)
	}
	for _, cs := range schedules {
		if _, exists := snap.Custom[cs.AssetID]; exists {
			// At most one active schedule per asset; the repository orders
			// by recency so the first one wins.
			snap.Warnings = append(snap.Warnings, *assetWarning(WarnDuplicateActive, cs.AssetID,
				"asset has multiple active custom schedules, keeping the most recent"))
			continue
		}
		snap.Custom[cs.AssetID] = s.convertCustomSchedule(cs, snap)
	}

	rules, err := s.rules.ListActiveForProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing scheduling rules: %w", err)
	}
	for _, r := range rules {
		if rule, ok := s.convertRule(r, snap); ok {
			snap.Rules = append(snap.Rules, rule)
		}
	}

	templates, err := s.templates.ListApplicable(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	for _, t := range templates {
		if tmpl, ok := s.convertTemplate(t, snap); ok {
			snap.Templates = append(snap.Templates, tmpl)
		}
	}

	return snap, nil
}

func (s *Service) convertAsset(m models.Asset, snap *Snapshot) Asset {
	asset := Asset{
		ID:         m.ID,
		PropertyID: m.PropertyID,
		Name:       m.Name,
		Type:       string(m.Type),
		WaterType:  string(m.WaterType),
		Base:       FrequencySpec{Frequency: Frequency(m.Frequency)},
	}

	times, warn := ParseTimeList(m.Times)
	if warn != nil {
		warn.AssetID = m.ID
		snap.Warnings = append(snap.Warnings, *warn)
	}
	asset.Base.Times = times

	days, warn := ParseWeekdayList(m.Days)
	if warn != nil {
		warn.AssetID = m.ID
		snap.Warnings = append(snap.Warnings, *warn)
	}
	asset.Base.Days = days

	if m.AnchorDate != nil {
		asset.Base.Anchor = DateOnly(*m.AnchorDate)
	}
	return asset
}

func (s *Service) convertCustomSchedule(m models.CustomSchedule, snap *Snapshot) CustomSchedule {
	cs := CustomSchedule{
		ID:      m.ID,
		AssetID: m.AssetID,
		Type:    ScheduleType(m.ScheduleType),
	}

	spec, fireDates, warn := ParseScheduleConfig(m.ScheduleConfig, cs.Type, s.defaultTime)
	if warn != nil {
		warn.AssetID = m.AssetID
		snap.Warnings = append(snap.Warnings, *warn)
		cs.Invalid = true
		return cs
	}
	cs.Spec = spec
	cs.FireDates = fireDates

	serviceTypes, warn := ParseServiceTypes(m.ServiceTypes)
	if warn != nil {
		warn.AssetID = m.AssetID
		snap.Warnings = append(snap.Warnings, *warn)
		cs.Invalid = true
		return cs
	}
	cs.ServiceTypes = serviceTypes
	return cs
}

func (s *Service) convertRule(m models.PropertySchedulingRule, snap *Snapshot) (RotationRule, bool) {
	if m.RuleType != models.RuleTypeRandomSelection {
		snap.Warnings = append(snap.Warnings, *ruleWarning(WarnUnknownRuleType, m.ID,
			"unknown rule type %q, skipping", m.RuleType))
		return RotationRule{}, false
	}

	rule, warn := ParseRuleConfig(m.RuleConfig, s.defaultTime)
	if warn != nil {
		warn.RuleID = m.ID
		snap.Warnings = append(snap.Warnings, *warn)
		return RotationRule{}, false
	}
	rule.ID = m.ID
	rule.PropertyID = m.PropertyID
	return rule, true
}

func (s *Service) convertTemplate(m models.ScheduleTemplate, snap *Snapshot) (Template, bool) {
	tmpl := Template{
		ID:       m.ID,
		Name:     m.Name,
		IsPublic: m.IsPublic,
		Type:     ScheduleSimple,
	}

	assetTypes, warn := ParseStringList(m.ApplicableAssetTypes)
	if warn != nil {
		snap.Warnings = append(snap.Warnings, *warn)
		return Template{}, false
	}
	tmpl.AssetTypes = assetTypes

	waterTypes, warn := ParseStringList(m.ApplicableWaterTypes)
	if warn != nil {
		snap.Warnings = append(snap.Warnings, *warn)
		return Template{}, false
	}
	tmpl.WaterTypes = waterTypes

	spec, fireDates, warn := ParseScheduleConfig(m.TemplateConfig, tmpl.Type, s.defaultTime)
	if warn != nil {
		snap.Warnings = append(snap.Warnings, *warn)
		return Template{}, false
	}
	tmpl.Spec = spec
	tmpl.FireDates = fireDates

	serviceTypes, warn := ParseServiceTypes(m.ServiceTypes)
	if warn != nil {
		snap.Warnings = append(snap.Warnings, *warn)
		return Template{}, false
	}
	tmpl.ServiceTypes = serviceTypes
	return tmpl, true
}
