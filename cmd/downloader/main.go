package main

import (
	"RekhtaDownloader/cmd/downloader/commands"
	"context"
	"log"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	commands.ExecuteContext(context.Background())
}
