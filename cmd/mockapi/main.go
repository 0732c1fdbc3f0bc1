// Package main runs the in-memory mock of the upstream admin API for local
// development of the console.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":5000", "Listen address")
	secret := flag.String("secret", "", "Session signing secret")
	fixedOTP := flag.String("fixed-otp", "", "Issue this OTP for every login (dev only)")
	seed := flag.Bool("seed", true, "Load demo data")
	flag.Parse()

	// Environment variable overrides
	if v := os.Getenv("MOCKAPI_ADDR"); v != "" {
		*addr = v
	}
	if v := os.Getenv("MOCKAPI_SECRET"); v != "" {
		*secret = v
	}

	log := logrus.New()

	if *secret == "" {
		*secret = "dev-secret-not-for-production"
		log.Warn("no signing secret given, using the dev default")
	}

	opts := []mockapi.Option{mockapi.WithLogger(log)}
	if *fixedOTP != "" {
		opts = append(opts, mockapi.WithFixedOTP(*fixedOTP))
	}

	server := mockapi.New([]byte(*secret), opts...)
	if *seed {
		server.Seed()
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", *addr).Info("mock admin API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}
