package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/seekguard/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	secret = configVar[string]{
		envKey:  "SERVER_SECRET",
		flagKey: "secret",
		usage:   "Secret used to sign view tokens",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
		usage:        "Server port",
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	sessionTTL = configVar[time.Duration]{
		envKey:       "SERVER_SESSION_TTL",
		flagKey:      "session-ttl",
		defaultValue: 6 * time.Hour,
		usage:        "How long an idle player session is kept",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
		usage:        "Redis host",
	}
	redisPassword = configVar[string]{
		envKey:  "REDIS_PASSWORD",
		flagKey: "redis-password",
		usage:   "Redis password",
	}
	s3Endpoint = configVar[string]{
		envKey:  "S3_ENDPOINT",
		flagKey: "s3-endpoint",
		usage:   "S3 endpoint",
	}
	s3PublicEndpoint = configVar[string]{
		envKey:  "S3_PUBLIC_ENDPOINT",
		flagKey: "s3-public-endpoint",
		usage:   "S3 endpoint used in presigned URLs",
	}
	s3Bucket = configVar[string]{
		envKey:  "S3_BUCKET",
		flagKey: "s3-bucket",
		usage:   "Bucket s3:// sources are read from, empty disables them",
	}
	s3Region = configVar[string]{
		envKey:       "S3_REGION",
		flagKey:      "s3-region",
		defaultValue: "eu-central-1",
		usage:        "S3 region",
	}
	s3AccessKey = configVar[string]{
		envKey:  "S3_ACCESS_KEY",
		flagKey: "s3-access-key",
		usage:   "S3 access key",
	}
	s3SecretKey = configVar[string]{
		envKey:  "S3_SECRET_KEY",
		flagKey: "s3-secret-key",
		usage:   "S3 secret key",
	}
	s3PresignExpiry = configVar[time.Duration]{
		envKey:       "S3_PRESIGN_EXPIRY",
		flagKey:      "s3-presign-expiry",
		defaultValue: time.Hour,
		usage:        "Lifetime of presigned media URLs",
	}
)

func bindString(v configVar[string]) {
	pflag.String(v.flagKey, v.defaultValue, v.usage)
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func bindInt(v configVar[int]) {
	pflag.Int(v.flagKey, v.defaultValue, v.usage)
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func bindDuration(v configVar[time.Duration]) {
	pflag.Duration(v.flagKey, v.defaultValue, v.usage)
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	for _, v := range []configVar[string]{
		secret, host, logLevel, redisHost, redisPassword,
		s3Endpoint, s3PublicEndpoint, s3Bucket, s3Region, s3AccessKey, s3SecretKey,
	} {
		bindString(v)
	}
	for _, v := range []configVar[int]{port, redisPort} {
		bindInt(v)
	}
	for _, v := range []configVar[time.Duration]{sessionTTL, s3PresignExpiry} {
		bindDuration(v)
	}
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	return &app.AppConfig{
		Secret:          viper.GetString(secret.flagKey),
		Host:            viper.GetString(host.flagKey),
		Port:            viper.GetInt(port.flagKey),
		LogLevel:        viper.GetString(logLevel.flagKey),
		SessionTTL:      viper.GetDuration(sessionTTL.flagKey),
		RedisPort:       viper.GetInt(redisPort.flagKey),
		RedisHost:       viper.GetString(redisHost.flagKey),
		RedisPassword:   viper.GetString(redisPassword.flagKey),
		S3Endpoint:      viper.GetString(s3Endpoint.flagKey),
		S3PublicURL:     viper.GetString(s3PublicEndpoint.flagKey),
		S3Bucket:        viper.GetString(s3Bucket.flagKey),
		S3Region:        viper.GetString(s3Region.flagKey),
		S3AccessKey:     viper.GetString(s3AccessKey.flagKey),
		S3SecretKey:     viper.GetString(s3SecretKey.flagKey),
		S3PresignExpiry: viper.GetDuration(s3PresignExpiry.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
