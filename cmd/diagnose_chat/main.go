package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/config"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/storage"
	"agahi-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	phone := flag.String("phone", "", "viewer phone number")
	listingID := flag.String("listing", "", "listing id to resolve a thread for (optional)")
	flag.Parse()

	if *phone == "" {
		fmt.Println("usage: diagnose_chat -phone 09123456789 [-listing <id>]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.New()
	logger.Init(cfg.Env)

	ctx := context.Background()
	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer stores.Close()

	fmt.Println("=== CHAT DIAGNOSTIC ===")

	// 1. Who is the viewer
	viewer := messaging.Viewer{Phone: *phone}
	user, err := stores.Users.UserByPhone(ctx, *phone)
	switch {
	case err == nil:
		viewer.ID = user.ID
		fmt.Printf("1. Account: %s (%s) id=%s\n", user.DisplayName(), user.Phone, user.ID)
	case apperr.IsNotFound(err):
		fmt.Printf("1. No account for %s, using the phone alone\n", *phone)
	default:
		logger.Fatal().Err(err).Msg("Failed to look up account")
	}

	resolver := messaging.NewResolver(stores.Users)
	fmt.Printf("   Aliases: %v\n", resolver.ForViewer(viewer.ID, viewer.Phone))

	count, err := stores.Messages.Count(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to count messages")
	}
	fmt.Printf("   Messages in store: %d\n", count)

	// 2. Conversation summaries, read only
	aggregator := messaging.NewAggregator(stores.Messages, resolver, stores.Ads)
	summaries, err := aggregator.List(ctx, resolver.ForViewer(viewer.ID, viewer.Phone))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to list conversations")
	}
	fmt.Printf("\n2. Conversations (%d):\n", len(summaries))
	for _, s := range summaries {
		fmt.Printf("   - %s | %s | with %s (%s) | unread %d | %q\n",
			s.ID, s.ListingTitle, s.CounterpartName, s.CounterpartAlias, s.UnreadCount, s.LastMessage)
	}

	if *listingID == "" {
		return
	}

	// 3. Thread for one listing, without marking anything read
	ad, err := stores.Ads.AdByID(ctx, *listingID)
	if err != nil {
		logger.Fatal().Err(err).Str("listing", *listingID).Msg("Failed to load listing")
	}
	thread, err := messaging.NewDisambiguator(stores.Messages, resolver).
		Resolve(ctx, resolver.ForViewer(viewer.ID, viewer.Phone), ad)
	if err != nil {
		fmt.Printf("\n3. Thread for %s: %s\n", *listingID, apperr.ReasonOf(err, err.Error()))
		return
	}
	fmt.Printf("\n3. Thread for %s (owner=%v, counterpart=%s):\n", ad.Title, thread.IsOwner, thread.CounterpartAlias)
	fmt.Printf("   Party: %v\n   Counterpart: %v\n", thread.Party, thread.Counterpart)
	for _, m := range thread.Messages {
		fmt.Printf("   [%d] %s %s -> %s read=%v: %s\n",
			m.Seq, m.CreatedAt.Format("2006-01-02 15:04:05"), m.SenderID, m.ReceiverID, m.Read, m.Content)
	}
}
