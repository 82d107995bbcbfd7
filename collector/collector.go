// Package collector walks an experiment tree laid out as root/<scenario>/<run>/* and
// assembles one RunRecord per run directory.
package collector

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/majewsky/gg/option"
	"github.com/sirupsen/logrus"

	"github.com/neehar-mavuduru/perfreport/extractor"
	"github.com/neehar-mavuduru/perfreport/scenario"
)

var (
	standaloneNumber = regexp.MustCompile(`(?:^|\D)(\d{2,5})(?:\D|$)`)
	anyNumber        = regexp.MustCompile(`\d{2,5}`)
	clientsToken     = regexp.MustCompile(`c(\d+)`)
)

// readDir lists a directory; replaced in tests.
var readDir = os.ReadDir

// Collector turns an experiment tree into a table of RunRecord.
type Collector struct {
	cfg     Config
	catalog scenario.Catalog
	log     *logrus.Entry
}

// New creates a Collector. A nil logger discards all output.
func New(cfg Config, catalog scenario.Catalog, log *logrus.Entry) (*Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid collector config: %w", err)
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Collector{
		cfg:     cfg,
		catalog: catalog,
		log:     log.WithField("component", "collector"),
	}, nil
}

// runFiles are the files located in one run directory.
type runFiles struct {
	names    []string
	loadTest string
	cpu      map[Role]string
}

// Walk visits every scenario and run directory below root in lexicographic order.
// Files that are absent or unparsable and directories that cannot be listed are recorded in
// the returned MissingFiles and never stop the walk; only an unlistable root is an error.
// Symbolic links are followed.
func (c *Collector) Walk(root string) ([]RunRecord, *MissingFiles, error) {
	missing := &MissingFiles{}

	scenarios, err := readDir(root)
	if err != nil {
		return nil, missing, fmt.Errorf("failed to list root directory: %w", err)
	}

	var records []RunRecord
	for _, sd := range scenarios {
		scenarioDir := filepath.Join(root, sd.Name())
		if !entryMode(scenarioDir, sd).IsDir() {
			continue
		}
		name := sd.Name()
		desc := c.catalog.Describe(name)

		runs, err := readDir(scenarioDir)
		if err != nil {
			c.unlistable(scenarioDir, err, missing)
			continue
		}

		for _, rd := range runs {
			runDir := filepath.Join(scenarioDir, rd.Name())
			if !entryMode(runDir, rd).IsDir() {
				continue
			}
			rec, err := c.collectRun(name, desc, runDir, missing)
			if err != nil {
				c.unlistable(runDir, err, missing)
				continue
			}
			records = append(records, rec)
		}
	}

	c.log.WithFields(logrus.Fields{
		"runs":    len(records),
		"missing": missing.Len(),
	}).Info("Walk completed")

	return records, missing, nil
}

func (c *Collector) unlistable(dir string, err error, missing *MissingFiles) {
	missing.Add(dir)
	c.log.WithError(err).WithField("path", dir).Warn("Directory could not be listed, skipping")
}

// entryMode returns the type of e, resolving symbolic links. A dangling link is irregular.
func entryMode(path string, e fs.DirEntry) fs.FileMode {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type()
	}
	info, err := os.Stat(path)
	if err != nil {
		return fs.ModeIrregular
	}
	return info.Mode()
}

func (c *Collector) collectRun(scenarioName, desc, runDir string, missing *MissingFiles) (RunRecord, error) {
	rec := RunRecord{
		Scenario:            scenarioName,
		ScenarioDescription: desc,
		Run:                 filepath.Base(runDir),
		SourcePath:          runDir,
		CPU:                 make(map[Role]extractor.CPUMetric, len(Roles)),
	}
	log := c.log.WithFields(logrus.Fields{"scenario": scenarioName, "run": rec.Run})

	files, err := c.locate(runDir)
	if err != nil {
		return rec, err
	}

	report := func(entry string) {
		missing.Add(entry)
		log.WithField("path", entry).Debug("Expected file missing or unparsable")
	}

	rec.Concurrency = c.detect(files)

	for _, role := range Roles {
		path, ok := files.cpu[role]
		if !ok {
			report(fmt.Sprintf("%s/AVG_CPU_%s_*.txt", runDir, role))
			continue
		}
		text, err := extractor.ReadText(path)
		if err != nil {
			report(path)
			continue
		}
		metric, ok := extractor.ParseCPULog(text).Unpack()
		if !ok {
			report(path)
			continue
		}
		rec.CPU[role] = metric
	}

	if files.loadTest == "" {
		report(runDir + "/*wrk*.txt")
		return rec, nil
	}
	rec.LoadTestFile = files.loadTest
	text, err := extractor.ReadText(files.loadTest)
	if err != nil {
		report(files.loadTest)
		return rec, nil
	}
	metric := extractor.ParseLoadTestLog(text)
	if metric.IsEmpty() {
		report(files.loadTest)
	}
	rec.LoadTest = option.Some(metric)
	return rec, nil
}

// locate lists the run directory and picks the load test file and one CPU file per role.
// The first matching file in directory order wins each slot.
func (c *Collector) locate(runDir string) (runFiles, error) {
	entries, err := readDir(runDir)
	if err != nil {
		return runFiles{}, fmt.Errorf("failed to list run directory %s: %w", runDir, err)
	}

	files := runFiles{cpu: make(map[Role]string, len(Roles))}
	for _, e := range entries {
		name := e.Name()
		files.names = append(files.names, name)
		path := filepath.Join(runDir, name)
		if !entryMode(path, e).IsRegular() {
			continue
		}
		lower := strings.ToLower(name)

		if files.loadTest == "" && strings.Contains(lower, "wrk") &&
			slices.Contains(c.cfg.LoadTestExtensions, filepath.Ext(lower)) {
			files.loadTest = path
		}
		for _, role := range Roles {
			if _, taken := files.cpu[role]; taken {
				continue
			}
			if strings.HasPrefix(lower, "avg_cpu_"+string(role)) || strings.HasPrefix(lower, "summary_"+string(role)) {
				files.cpu[role] = path
			}
		}
	}
	return files, nil
}

func (c *Collector) detect(files runFiles) option.Option[int] {
	if n := DetectConcurrency(files.names, c.cfg); n.IsSome() {
		return n
	}
	for _, role := range Roles {
		if path, ok := files.cpu[role]; ok {
			if m := anyNumber.FindString(filepath.Base(path)); m != "" {
				return atoi(m)
			}
		}
	}
	if files.loadTest != "" {
		if m := clientsToken.FindStringSubmatch(filepath.Base(files.loadTest)); m != nil {
			return atoi(m[1])
		}
	}
	return option.None[int]()
}

// DetectConcurrency returns the first file name number that looks like a client count.
// Only the first standalone 2 to 5 digit number of each name is considered.
func DetectConcurrency(names []string, cfg Config) option.Option[int] {
	for _, name := range names {
		m := standaloneNumber.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if cfg.acceptsConcurrency(n) {
			return option.Some(n)
		}
	}
	return option.None[int]()
}

func atoi(s string) option.Option[int] {
	n, err := strconv.Atoi(s)
	if err != nil {
		return option.None[int]()
	}
	return option.Some(n)
}
