package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/0xRadioAc7iv/kvstore/internal/httpapi"
	"github.com/0xRadioAc7iv/kvstore/internal/lock"
	"github.com/0xRadioAc7iv/kvstore/internal/registry"
	"github.com/0xRadioAc7iv/kvstore/internal/utils"
)

func main() {
	cfg, err := utils.ParseServerArgs()
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(cfg.Root, 0755); err != nil {
		log.Fatal(err)
	}

	lockFile, err := lock.LockDirectory(cfg.Root)
	if err != nil {
		log.Fatal(err)
	}
	defer lock.UnlockDirectory(lockFile)

	reg, err := registry.New(cfg.Root)
	if err != nil {
		log.Fatal(err)
	}
	defer reg.CloseAll()

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler: httpapi.NewServer(reg),
	}

	go func() {
		fmt.Printf("kvstore serving %s, store root %s\n", srv.Addr, cfg.Root)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	waitForInterruptOrKill()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("shutdown error:", err)
	}
}

// waitForInterruptOrKill blocks until the process receives an interrupt
// (Ctrl+C) or termination signal, then returns so the caller can shut down.
func waitForInterruptOrKill() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	fmt.Println("press Ctrl+C to exit")

	<-sigChan
}
