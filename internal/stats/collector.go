package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/klimeurt/gerrit-repo-stats/internal/config"
	"github.com/klimeurt/gerrit-repo-stats/internal/export"
	"github.com/klimeurt/gerrit-repo-stats/internal/gerrit"
	"github.com/klimeurt/gerrit-repo-stats/internal/gitdate"
	"github.com/klimeurt/gerrit-repo-stats/internal/logscan"
	"github.com/klimeurt/gerrit-repo-stats/internal/matcher"
	"github.com/nats-io/nats.go"
)

// Collector runs one export: list repositories, resolve creation dates, write
// the CSV and the discard report.
type Collector struct {
	config *config.Config
	gerrit *gerrit.Client
	reader gitdate.Reader
	nc     *nats.Conn
}

// New creates a new Collector instance. NATS is connected only when a URL is
// configured; without one the collector writes files only.
func New(cfg *config.Config) (*Collector, error) {
	var reader gitdate.Reader
	switch cfg.GitBackend {
	case config.GitBackendNative:
		reader = gitdate.NativeReader{}
	default:
		reader = &gitdate.CLIReader{}
	}

	c := &Collector{
		config: cfg,
		gerrit: gerrit.NewClient(cfg),
		reader: reader,
	}

	if cfg.NATSUrl != "" {
		nc, err := nats.Connect(cfg.NATSUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		c.nc = nc
	}

	return c, nil
}

// Run performs a full export. Per-repository failures are logged and recorded
// as unknown; listing and output failures abort the run.
func (c *Collector) Run(ctx context.Context) error {
	log.Printf("Fetching repository list from %s", c.config.GerritURL)
	names, err := c.gerrit.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}
	log.Printf("Found %d repositories", len(names))

	existing, err := export.LoadExisting(c.config.CSVOutput)
	if err != nil {
		return err
	}

	records := make([]export.Repository, 0, len(names))
	for _, name := range names {
		records = append(records, c.resolveRepository(ctx, name, existing))
	}

	if err := export.WriteCSV(c.config.CSVOutput, records); err != nil {
		return err
	}
	log.Printf("Wrote %d rows to %s", len(records), c.config.CSVOutput)

	urls, err := logscan.ExtractURLs(c.config.LogsPath)
	if err != nil {
		return err
	}
	_, discarded := matcher.Partition(urls, names)
	if err := export.WriteDiscarded(c.config.DiscardedURLsOutput, discarded); err != nil {
		return err
	}
	log.Printf("Discarded %d of %d log URLs", len(discarded), len(urls))

	return nil
}

// resolveRepository produces the record for one repository. It never fails the
// run: an unresolvable date is recorded as unknown.
func (c *Collector) resolveRepository(ctx context.Context, name string, existing map[string]string) export.Repository {
	record := export.Repository{Name: name, CreationDate: export.UnknownDate}

	if date, ok := existing[name]; ok && date != export.UnknownDate {
		log.Printf("Skipping %s, already in CSV", name)
		record.CreationDate = date
		c.publishRepository(record)
		return record
	}

	when, ok, err := gitdate.Resolve(ctx, c.reader, c.config.GitBasePath, name)
	switch {
	case err != nil:
		log.Printf("Failed to read commit date for %s: %v", name, err)
	case !ok:
		log.Printf("No commit date for %s, recording as unknown", name)
	default:
		record.CreationDate = when.Format(export.DateLayout)
	}

	c.publishRepository(record)
	return record
}

// publishRepository publishes a record to the NATS queue when one is
// configured. Publish failures do not fail the repository.
func (c *Collector) publishRepository(record export.Repository) {
	if c.nc == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		log.Printf("Failed to marshal repository %s: %v", record.Name, err)
		return
	}
	if err := c.nc.Publish(c.config.NATSSubject, data); err != nil {
		log.Printf("Failed to publish repository %s: %v", record.Name, err)
	}
}

// Close cleanly shuts down the collector
func (c *Collector) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}
