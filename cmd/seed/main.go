// Command seed populates the database with the default admin account, a test
// user, and a starter catalog of approved central and state schemes. Safe to
// re-run: existing users and schemes are left alone.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"schemeteller/internal/platform/config"
	"schemeteller/internal/platform/logger"
	"schemeteller/internal/platform/postgres"
	"schemeteller/internal/scheme"
	schemestore "schemeteller/internal/scheme/store"
	"schemeteller/internal/user"
	userstore "schemeteller/internal/user/store"
	"schemeteller/migrations"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

func main() {
	log := logger.New()
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx := context.Background()
	cfg := config.FromEnv()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Apply(ctx, db); err != nil {
		return err
	}

	users := userstore.NewPostgres(db)
	schemes := schemestore.NewPostgres(db)

	if err := seedUser(ctx, log, users, "admin@govscheme.in", "admin123", "Platform Admin", id.RoleAdmin, true); err != nil {
		return err
	}
	if err := seedUser(ctx, log, users, "user@govscheme.in", "user123", "Test User", id.RoleUser, false); err != nil {
		return err
	}

	return seedSchemes(ctx, log, schemes)
}

func seedUser(ctx context.Context, log *slog.Logger, users *userstore.Postgres, email, password, name string, role id.Role, onboarded bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	u := &user.User{
		ID:                  id.NewUserID(),
		Email:               email,
		PasswordHash:        string(hash),
		Name:                name,
		Role:                role,
		OnboardingCompleted: onboarded,
		CreatedAt:           time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			log.Info("user already exists", "email", email)
			return nil
		}
		return err
	}
	log.Info("user created", "email", email, "role", role)
	return nil
}

type seedScheme struct {
	name         string
	description  string
	ministry     string
	level        id.SchemeLevel
	rules        string
	regions      []id.Region
	officialLink string
}

var starterCatalog = []seedScheme{
	{
		name:         "PM Kisan Samman Nidhi",
		description:  "Income support of Rs 6,000 per year to all land-holding farmer families across the country in three equal installments.",
		ministry:     "Ministry of Agriculture and Farmers Welfare",
		level:        id.SchemeLevelCentral,
		rules:        `{"occupations": ["FARMER"], "maxIncome": 500000}`,
		officialLink: "https://pmkisan.gov.in/",
	},
	{
		name:         "Ayushman Bharat - PMJAY",
		description:  "Health insurance cover of Rs 5 lakh per family per year for secondary and tertiary care hospitalization to economically vulnerable families.",
		ministry:     "Ministry of Health and Family Welfare",
		level:        id.SchemeLevelCentral,
		rules:        `{"maxIncome": 250000, "bplOnly": true}`,
		officialLink: "https://pmjay.gov.in/",
	},
	{
		name:         "PM Awas Yojana - Gramin",
		description:  "Financial assistance for construction of pucca houses with basic amenities to all houseless and those living in kutcha/dilapidated houses in rural areas.",
		ministry:     "Ministry of Rural Development",
		level:        id.SchemeLevelCentral,
		rules:        `{"maxIncome": 300000, "ruralOnly": true, "bplOnly": true}`,
		officialLink: "https://pmayg.nic.in/",
	},
	{
		name:         "Kalia Yojana",
		description:  "Financial assistance to small and marginal farmers, landless agricultural households, and vulnerable agricultural households in Odisha.",
		ministry:     "Department of Agriculture, Odisha",
		level:        id.SchemeLevelState,
		rules:        `{"occupations": ["FARMER"], "maxIncome": 200000, "categories": ["GENERAL", "OBC", "SC", "ST"]}`,
		regions:      []id.Region{id.RegionOdisha},
		officialLink: "https://kalia.odisha.gov.in/",
	},
	{
		name:         "Mukhyamantri Ladli Behna Yojana",
		description:  "Monthly financial assistance of Rs 1,250 to women aged 23-60 years from economically weaker families in Madhya Pradesh.",
		ministry:     "Department of Women and Child Development, Madhya Pradesh",
		level:        id.SchemeLevelState,
		rules:        `{"genders": ["FEMALE"], "minAge": 23, "maxAge": 60, "maxIncome": 250000}`,
		regions:      []id.Region{id.RegionMadhyaPradesh},
		officialLink: "https://ladlibahna.mp.gov.in/",
	},
	{
		name:         "YSR Rythu Bharosa",
		description:  "Input assistance of Rs 13,500 per year to all farmer families in Andhra Pradesh for crop investment support.",
		ministry:     "Department of Agriculture, Andhra Pradesh",
		level:        id.SchemeLevelState,
		rules:        `{"occupations": ["FARMER"], "categories": ["GENERAL", "OBC", "SC", "ST", "EWS"]}`,
		regions:      []id.Region{id.RegionAndhraPradesh},
		officialLink: "https://ysrrythubharosa.ap.gov.in/",
	},
}

func seedSchemes(ctx context.Context, log *slog.Logger, schemes *schemestore.Postgres) error {
	for _, entry := range starterCatalog {
		page, err := schemes.List(ctx, scheme.ListFilter{Search: entry.name, Page: 1, Limit: 1})
		if err != nil {
			return err
		}
		if page.Total > 0 {
			log.Info("scheme already exists", "name", entry.name)
			continue
		}

		now := time.Now().UTC()
		err = schemes.Create(ctx, &scheme.Scheme{
			ID:                id.NewSchemeID(),
			Name:              entry.name,
			Description:       entry.description,
			Ministry:          entry.ministry,
			Level:             entry.level,
			Status:            id.SchemeStatusApproved,
			EligibilityRules:  json.RawMessage(entry.rules),
			ApplicableRegions: entry.regions,
			OfficialLink:      entry.officialLink,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return err
		}
		log.Info("scheme created", "name", entry.name, "level", entry.level)
	}
	return nil
}
