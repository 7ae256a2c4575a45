package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/niksmo/furnistore/config"
	"github.com/niksmo/furnistore/internal/adapter/kafka"
	"github.com/niksmo/furnistore/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	minISR            = "2"

	// The mirror needs only the latest version of every document.
	compact = "compact"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()

	cl := createClient(cfg)
	defer cl.Close()

	topic := cfg.Broker.Topics.ContentDocuments
	fmt.Printf("initializing topic %q...\n\n", topic)
	defer printComplete(time.Now())

	if err := makeTopic(sigCtx, cl, topic); err != nil {
		fmt.Printf("failed to create topic: \n%s\n", err)
	}
}

func createClient(cfg config.Config) *kadm.Client {
	t := cfg.Broker.TLS
	tlsCfg, err := kafka.TLSConfig(t.CAFile, t.CertFile, t.KeyFile)
	if err != nil {
		fmt.Printf("failed to load tls config: %s\n", err)
		os.Exit(2)
	}

	opts := append(
		[]kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)},
		kafka.TLSOpts(tlsCfg)...,
	)
	cl, err := kadm.NewOptClient(opts...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func makeTopic(ctx context.Context, cl *kadm.Client, topic string) error {
	cleanupPolicy, isr := compact, minISR
	configs := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &isr,
	}

	res, err := cl.CreateTopic(ctx, partitions, replicationFactor, configs, topic)
	if err != nil {
		return err
	}
	if res.Err != nil {
		if errors.Is(res.Err, kerr.TopicAlreadyExists) {
			fmt.Printf("topic: %q already exists\n", res.Topic)
			return nil
		}
		return res.Err
	}

	fmt.Printf("topic: %q successfully created\n", res.Topic)
	return nil
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}
