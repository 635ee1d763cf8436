// Package report turns ranked validators into table rows and exports them.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/log"
	"github.com/gagliardetto/solana-latency/internal/models"
)

const notAvailable = "N/A"

// Header is shared by the console table and the CSV export.
var Header = []string{
	"Vote Account",
	"SOL Staked",
	"IP",
	"City",
	"Data Center (ASN)",
	"Ping (ICMP)",
	"QUIC (UDP 8001)",
}

type Row []string

// FormatStake renders lamports as "<amount with 2 decimals> <symbol>".
func FormatStake(stake models.Lamports, symbol string) string {
	return strconv.FormatFloat(stake.SOL(), 'f', 2, 64) + " " + symbol
}

// FormatLatency renders "<ms> ms", keeping at least one decimal, or "N/A".
func FormatLatency(ms *float64) string {
	if ms == nil {
		return notAvailable
	}
	s := strconv.FormatFloat(*ms, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s + " ms"
}

func BuildRow(v models.Validator, symbol string) Row {
	return Row{
		v.VotePubkey.String(),
		FormatStake(v.Stake, symbol),
		v.IP,
		v.City,
		v.Operator,
		FormatLatency(v.PingMs),
		FormatLatency(v.UDPMs),
	}
}

func BuildRows(validators []models.Validator, symbol string) []Row {
	rows := make([]Row, 0, len(validators))
	for _, v := range validators {
		rows = append(rows, BuildRow(v, symbol))
	}
	return rows
}

// RenderTable writes an aligned, bordered table.
func RenderTable(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

// WriteCSV overwrites path with the header and rows.
func WriteCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer f.Close()

	if err := writeCSV(f, rows); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close csv")
	}
	log.Logger.Report.Debugf("wrote %d csv rows to %s", len(rows), path)

	return nil
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
