package main

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/socialmux/chat"
	"github.com/Luismorlan/socialmux/filestore"
	"github.com/Luismorlan/socialmux/server"
	"github.com/Luismorlan/socialmux/server/middlewares"
	"github.com/Luismorlan/socialmux/utils"
	"github.com/Luismorlan/socialmux/utils/dotenv"
	Flag "github.com/Luismorlan/socialmux/utils/flag"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Logger.Log.Info("api server shutdown")
}

// newDogStatsdClient connects to the local Datadog agent, nil outside of
// production so local runs don't hot-loop on a missing agent socket.
func newDogStatsdClient() *statsd.Client {
	if !utils.IsProdEnv() {
		return nil
	}
	client, err := statsd.New("127.0.0.1:8125")
	if err != nil {
		Logger.Log.Fatal("fail to create statsd client: ", err)
	}
	return client
}

func main() {
	Flag.ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	Logger.InitLogger()
	utils.InitTracer()
	utils.InitProfiler()
	defer cleanup()

	if !Flag.ByPassAuth {
		middlewares.Setup()
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	store, err := filestore.NewS3FileStore(os.Getenv("MEDIA_BUCKET"))
	if err != nil {
		Logger.Log.Fatal("fail to create media file store: ", err)
	}

	chatService, err := chat.NewStreamService()
	if err != nil {
		Logger.Log.Fatal("fail to create chat service: ", err)
	}

	srv := &server.Server{
		DB:            db,
		Redis:         utils.GetRedisClient(),
		Store:         store,
		Chat:          chatService,
		Statsd:        newDogStatsdClient(),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		CronSecret:    os.Getenv("CRON_SECRET"),
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(gintrace.Middleware(Flag.ServiceName))

	var session gin.HandlerFunc
	if !Flag.ByPassAuth {
		session = middlewares.Session()
	}
	srv.RegisterRoutes(router, session)

	Logger.Log.Info("api server starts up")
	router.Run(":8080")
}
