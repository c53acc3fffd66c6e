package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"svasthya/repositories"
)

// Read-only transcript viewer. Opens the BadgerDB of a running or
// stopped wellness process and prints the stored messages as a table.
func main() {
	dbPath := flag.String("db", "/tmp/svasthya/badger", "Path to badger DB")
	room := flag.String("room", "", "Only show messages of this room")
	flag.Parse()

	prefix := "msg:"
	if *room != "" {
		prefix = fmt.Sprintf("msg:%s:", *room)
	}

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	color.New(color.FgGreen).Printf("Transcript viewer, scanning prefix %q\n", prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Room", "Author", "Kind", "Content"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var msg repositories.DiskMessage
				if err := json.Unmarshal(v, &msg); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				content := msg.Content
				if len(content) > 80 {
					content = content[:77] + "..."
				}
				content = strings.ReplaceAll(content, "\n", " ")

				table.Append([]string{
					msg.At.Format("15:04:05"),
					string(msg.Room),
					msg.Author,
					string(msg.Kind),
					content,
				})
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	color.New(color.FgCyan).Printf("%d messages\n", count)
}
