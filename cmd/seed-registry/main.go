// Command seed-registry replaces the verification registry with the records of
// a YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/beside-app/beside-api/internal/core/domain"
	mongostore "github.com/beside-app/beside-api/internal/infrastructure/db/mongo"
	"github.com/beside-app/beside-api/internal/pkg/config"
	"github.com/beside-app/beside-api/pkg/logger"
)

type seedFile struct {
	Records []domain.VerificationRecord `yaml:"records"`
}

func main() {
	path := flag.String("file", "configs/registry-seed.yaml", "YAML file with registry records")
	flag.Parse()

	log := logger.Init(logger.Options{Level: "info", Pretty: true, Service: "seed-registry"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("failed to open seed file")
	}
	defer f.Close()

	records, err := loadRecords(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("invalid seed file")
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	registry := mongostore.NewRegistryRepository(db)
	if err := registry.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create registry indexes")
	}
	n, err := registry.Seed(ctx, records)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed registry")
	}
	log.Info().Int("records", n).Msg("registry seeded")
}

// loadRecords decodes and checks the seed file. Every record needs names, a
// date of birth and at least one complete document.
func loadRecords(r io.Reader) ([]domain.VerificationRecord, error) {
	var sf seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	for i, rec := range sf.Records {
		if rec.FirstName == "" || rec.LastName == "" || rec.DOB == "" {
			return nil, fmt.Errorf("record %d: first_name, last_name and dob are required", i)
		}
		if !complete(rec.WWCC) && !complete(rec.License) {
			return nil, fmt.Errorf("record %d: needs a wwcc or license with number and expiry", i)
		}
	}
	return sf.Records, nil
}

func complete(d *domain.IdentityDocument) bool {
	return d != nil && d.Number != "" && d.Expiry != ""
}
