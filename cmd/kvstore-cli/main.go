package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/0xRadioAc7iv/kvstore/internal"
	"github.com/0xRadioAc7iv/kvstore/kvclient"
)

const helpText = `commands:
  get <store> <key>
  put <store> <key> <value> [mime-type]
  merge <store>
  keys <store>
  help
  exit`

func main() {
	host := flag.String("host", internal.DEFAULT_HOST, "kvstore server host")
	port := flag.Int("port", internal.DEFAULT_PORT, "kvstore server port")
	flag.Parse()

	client := kvclient.New(kvclient.WithHost(*host), kvclient.WithPort(*port))

	fmt.Printf("Connected to %s:%d\n", *host, *port)
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}
		if line == "help" {
			fmt.Println(helpText)
			continue
		}

		words, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		if err := run(client, words); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func run(client *kvclient.Client, words []string) error {
	if len(words) == 0 {
		return nil
	}

	switch words[0] {
	case "get":
		if len(words) != 3 {
			return fmt.Errorf("usage: get <store> <key>")
		}
		value, mime, err := client.Get(words[1], words[2])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", value, mime)

	case "put":
		if len(words) < 4 {
			return fmt.Errorf("usage: put <store> <key> <value> [mime-type]")
		}
		mime := "application/octet-stream"
		if len(words) > 4 {
			mime = words[4]
		}
		if err := client.Put(words[1], words[2], []byte(words[3]), mime); err != nil {
			return err
		}
		fmt.Println("OK")

	case "merge":
		if len(words) != 2 {
			return fmt.Errorf("usage: merge <store>")
		}
		report, err := client.Merge(words[1])
		if err != nil {
			return err
		}
		fmt.Println(report)

	case "keys":
		if len(words) != 2 {
			return fmt.Errorf("usage: keys <store>")
		}
		keys, err := client.Keys(words[1])
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(keys, " "))

	default:
		return fmt.Errorf("unknown command %q, type 'help' for a list", words[0])
	}

	return nil
}
