// keygen — офлайн-генератор лицензий. Пишет в серверную БД только
// отпечатки; плейнтекст ключей остаётся в админском экспорте и stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"keywarden/config"
	"keywarden/internal/db"
	"keywarden/internal/issuer"
	"keywarden/internal/logs"
	"keywarden/internal/models"
	"keywarden/internal/repo"
)

func main() {
	var (
		count    = pflag.IntP("count", "n", 1, "how many licenses to generate")
		days     = pflag.IntP("days", "d", 0, "validity period in days (0 = config default)")
		metadata = pflag.StringP("metadata", "m", "", "optional free-text annotation")
		exportTo = pflag.String("export-dir", "", "admin export dir (overrides config)")
	)
	pflag.Parse()

	cfg := config.MustLoad()
	logs.Init(logs.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	if *days <= 0 {
		*days = cfg.License.ValidityDays
	}
	if *exportTo == "" {
		*exportTo = cfg.Admin.ExportDir
	}
	if *count <= 0 {
		logs.Logger.Fatal("count must be positive")
	}

	d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logs.Logger.Fatalf("db open failed: %v", err)
	}
	if d == nil {
		logs.Logger.Fatal("keygen needs database.driver/dsn: in-memory mode has nothing to persist to")
	}
	if err := d.AutoMigrate(&models.License{}); err != nil {
		logs.Logger.Fatalf("db migrate failed: %v", err)
	}
	defer func() {
		if sqlDB, err := d.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	iss := issuer.New(repo.NewLicenseStore(d))
	issued, err := iss.Bulk(context.Background(), *count, *days, *metadata)
	if err != nil {
		logs.Logger.Fatalf("generation failed after %d issued: %v", len(issued), err)
	}

	export := issuer.AdminExport{Dir: *exportTo}
	if err := export.AppendKeys(issued); err != nil {
		logs.Logger.Fatalf("plaintext export failed: %v", err)
	}
	if err := export.WriteSummary(issued, *days, *metadata); err != nil {
		logs.Logger.Fatalf("summary export failed: %v", err)
	}

	for _, one := range issued {
		fmt.Fprintln(os.Stdout, one.Key)
	}
	logs.Logger.Infof("issued %d license(s), %d day(s) each, export: %s", len(issued), *days, *exportTo)
}
