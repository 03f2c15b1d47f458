package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/kaydenwl/tiertest-bot/internal/adapters/discord"
	"github.com/kaydenwl/tiertest-bot/internal/adapters/httpadmin"
	"github.com/kaydenwl/tiertest-bot/internal/app/service"
	"github.com/kaydenwl/tiertest-bot/internal/infra/config"
	"github.com/kaydenwl/tiertest-bot/internal/infra/metrics"
	"github.com/kaydenwl/tiertest-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("db ready and migrated")

	settingsRepo := storage.NewSettingsRepo(db)
	submissionRepo := storage.NewSubmissionRepo(db)
	checkpointRepo := storage.NewCheckpointRepo(db)
	sessionsRepo := storage.NewSessionsRepo(db)

	metrics.Register()

	auth := strings.TrimSpace(cfg.DiscordToken)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("connected as %s (%s)", s.State.User.Username, s.State.User.ID)

	roles := discordrouter.NewRoleSource(s)
	notifier := discordrouter.NewNotifier(s)
	tickets := discordrouter.NewTicketFactory(s)

	queueSvc := service.NewQueueService(settingsRepo, submissionRepo, roles, notifier, checkpointRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	submissionSvc := service.NewSubmissionService(submissionRepo)
	sessionSvc := service.NewSessionService(queueSvc, settingsRepo, submissionRepo, tickets, sessionsRepo)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := queueSvc.Load(loadCtx); err != nil {
		cancelLoad()
		log.Fatal("restore checkpoint:", err)
	}
	cancelLoad()

	runCtx, cancelRun := context.WithCancel(context.Background())
	go queueSvc.Run(runCtx)

	r := discordrouter.NewRouter(s, cfg.DiscordGuild, settingsSvc, submissionSvc, queueSvc, sessionSvc, roles)
	if err := r.Register(); err != nil {
		log.Fatalf("registering commands: %v", err)
	}
	r.Handlers()
	log.Printf("commands registered (guild=%q)", cfg.DiscordGuild)

	go httpadmin.New(cfg.HTTPAddr).Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	cancelRun()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := queueSvc.Checkpoint(ctx); err != nil {
		log.Printf("[ckpt] final save: %v", err)
	}
}
