package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vebulogmetra/pports/internal/inventory"
	"github.com/vebulogmetra/pports/internal/process"
	"github.com/vebulogmetra/pports/internal/ui"
)

type scanFlags struct {
	all       bool
	listening bool
	port      uint32
	portRange string
	protocol  string
	name      string
	details   bool
	limit     int
}

func newScanCmd() *cobra.Command {
	f := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List active ports and their owning processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(f)
		},
	}

	cmd.Flags().BoolVarP(&f.all, "all", "a", false, "all active ports (default)")
	cmd.Flags().BoolVarP(&f.listening, "listening", "l", false, "listening ports only")
	cmd.Flags().Uint32VarP(&f.port, "port", "p", 0, "one port")
	cmd.Flags().StringVarP(&f.portRange, "range", "r", "", "port range, e.g. 8000-9000")
	cmd.Flags().StringVar(&f.protocol, "protocol", "", "restrict to tcp or udp")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "substring match on process name")
	cmd.Flags().BoolVarP(&f.details, "details", "d", false, "include user, address, and command line")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "cap printed rows (0 = config scan_limit)")

	return cmd
}

func runScan(f *scanFlags) error {
	filter, err := f.toFilter()
	if err != nil {
		return err
	}

	cfg, scanner, _ := loadStack()

	records, err := scanner.List(filter)
	if err != nil {
		return &exitError{code: codeFailure, message: err.Error()}
	}
	if len(records) == 0 {
		log.Info("no matching ports found")
		return nil
	}

	limit := f.limit
	if limit == 0 {
		limit = cfg.ScanLimit
	}
	total := len(records)
	if limit > 0 && total > limit {
		records = records[:limit]
	}

	infos := make(map[int32]*process.Info)
	for _, r := range records {
		if r.PID == 0 {
			continue
		}
		if _, seen := infos[r.PID]; !seen {
			info, _ := scanner.Lookup(r.PID)
			infos[r.PID] = info
		}
	}

	fmt.Println(ui.RenderRecords(records, infos, f.details))
	if hidden := total - len(records); hidden > 0 {
		log.Info("rows hidden by limit", "hidden", hidden)
	}
	return nil
}

func (f *scanFlags) toFilter() (inventory.Filter, error) {
	selectors := 0
	for _, set := range []bool{f.all, f.listening, f.port != 0, f.portRange != ""} {
		if set {
			selectors++
		}
	}
	if selectors > 1 {
		return inventory.Filter{}, usageError("--all, --listening, --port, and --range are mutually exclusive")
	}

	filter := inventory.Filter{
		ListeningOnly: f.listening,
		Port:          f.port,
		NameContains:  f.name,
	}

	if f.portRange != "" {
		lo, hi, err := parsePortRange(f.portRange)
		if err != nil {
			return inventory.Filter{}, usageError("invalid --range: %v", err)
		}
		filter.RangeLo, filter.RangeHi = lo, hi
	}

	proto, err := parseProtocol(f.protocol)
	if err != nil {
		return inventory.Filter{}, err
	}
	filter.Protocol = proto

	return filter, nil
}

func parseProtocol(s string) (inventory.Protocol, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "tcp":
		return inventory.ProtocolTCP, nil
	case "udp":
		return inventory.ProtocolUDP, nil
	default:
		return "", usageError("invalid --protocol %q: must be tcp or udp", s)
	}
}

// parsePortRange accepts "A-B", "A:B", or "A,B".
func parsePortRange(s string) (uint32, uint32, error) {
	var parts []string
	for _, sep := range []string{"-", ":", ","} {
		if strings.Contains(s, sep) {
			parts = strings.SplitN(s, sep, 2)
			break
		}
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q is not of the form A-B", s)
	}

	lo, err := parsePort(parts[0])
	if err != nil {
		return 0, 0, err
	}
	hi, err := parsePort(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("range start %d exceeds end %d", lo, hi)
	}
	return lo, hi, nil
}

func parsePort(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n < 1 || n > 65535 {
		return 0, fmt.Errorf("%q is not a valid port", s)
	}
	return uint32(n), nil
}
