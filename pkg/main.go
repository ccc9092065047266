package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/auraheart/pkg/internal"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/cache"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/http"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func setDefaults() {
	viper.SetDefault("app_id", "auraheart-v2")
	viper.SetDefault("redis.channel", "auraheart:changes")
	viper.SetDefault("auth.admin_email", "admin@auraheart.com")
}

func loadSettings() error {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	setDefaults()

	return viper.ReadInConfig()
}

func main() {
	// Booting screen
	fmt.Println(color.HiMagentaString("    _                  _   _                 _\n   / \\  _   _ _ __ __ _| | | | ___  __ _ _ __| |_\n  / _ \\| | | | '__/ _` | |_| |/ _ \\/ _` | '__| __|\n / ___ \\ |_| | | | (_| |  _  |  __/ (_| | |  | |_\n/_/   \\_\\__,_|_|  \\__,_|_| |_|\\___|\\__,_|_|   \\__|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiMagenta).Add(color.Bold).Sprintf("AuraHeart"), pkg.AppVersion)
	fmt.Printf("The place where pins and pulses find their aura\n")
	color.HiBlack("=====================================================\n")

	// Load settings
	if err := loadSettings(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Realtime fan-out
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var broker realtime.Broker
	if addr := viper.GetString("redis.addr"); len(addr) > 0 {
		broker = realtime.NewRedisBroker(redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		}), viper.GetString("redis.channel"))
	}
	realtime.H = realtime.NewHub(broker)
	go func() {
		if err := realtime.H.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("An error occurred when listening realtime changes.")
		}
	}()

	grpcServer := grpc.NewGrpc()
	grpcServer.RefreshHealth()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.AddFunc("@every 30s", grpcServer.RefreshHealth)
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	grpcServer.Stop()
	_ = server.Shutdown()
}
