package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// hidden fields are never printed.
var hidden = map[string]bool{"passwordHash": true}

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (user:, freq:, group:, msg:, conv:...)")
	limit := flag.Int("limit", 200, "Maximum number of rows")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Type", "Key", "Value"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes) && rows < *limit; it.Next() {
			item := it.Item()
			key := string(item.Key())
			kind, _, _ := strings.Cut(key, ":")

			err := item.Value(func(v []byte) error {
				table.Append([]string{kind, key, describe(v)})
				return nil
			})
			if err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	fmt.Printf("%d row(s)\n", rows)
}

// describe renders a CBOR document as sorted key=value pairs,
// anything else (index values, set markers) as raw text.
func describe(value []byte) string {
	if len(value) == 0 {
		return "-"
	}
	var doc map[string]any
	if err := cbor.Unmarshal(value, &doc); err != nil {
		return string(value)
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		if !hidden[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, doc[k]))
	}
	return strings.Join(parts, " ")
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
