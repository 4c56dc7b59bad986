package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/natefinch/lumberjack"

	"github.com/warzone2100/chartsvg/chart"
	"github.com/warzone2100/chartsvg/db"
	"github.com/warzone2100/chartsvg/store"
)

var (
	BuildTime  = "00000000.000000"
	CommitHash = "0000000"
	GoVersion  = "0.0"
	GitTag     = "0.0"
	BuildType  = "dev"
)

var (
	renderFeed  *feedHub
	chartStore  *store.Store
	dbpool      *pgxpool.Pool
	themes      = newThemeSet()
	storeCharts = true
	adminHash   string
	startedAt   = time.Now()
)

func getenvOr(key, fallback string) string {
	ret := os.Getenv(key)
	if ret == "" {
		ret = fallback
	}
	return ret
}

func ByteCountIEC(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func customLogger(_ io.Writer, params handlers.LogFormatterParams) {
	r := params.Request
	ua := r.Header.Get("user-agent")
	log.Println("["+r.RemoteAddr+"]", r.Method, params.StatusCode, params.Size, r.RequestURI, "["+ua+"]")
}

func corsOrigins() []string {
	ret := []string{}
	for _, o := range strings.Split(getenvOr("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			ret = append(ret, o)
		}
	}
	return ret
}

func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = myNotFoundHandler()
	router.MethodNotAllowedHandler = myMethodNotAllowedHandler()
	types := "{type:line|area|stacked-area}"

	router.HandleFunc("/robots.txt", robotsHandler)
	router.HandleFunc("/api/render/"+types, APIcall(APIrenderChart)).Methods("POST")
	router.HandleFunc("/api/charts/"+types, APIcall(APIstoreChart)).Methods("POST")
	router.HandleFunc("/api/charts", APIcall(APIlistCharts)).Methods("GET")
	router.HandleFunc("/api/charts/"+types, APIcall(APIlistCharts)).Methods("GET")
	router.HandleFunc("/api/charts/"+types+"/{id:[0-9a-z]+}", APIcall(APIgetChart)).Methods("GET")
	router.HandleFunc("/api/charts/"+types+"/{id:[0-9a-z]+}", requireAdmin(APIcall(APIdeleteChart))).Methods("DELETE")
	router.HandleFunc("/api/purge", requireAdmin(APIcall(APIpurgeCharts))).Methods("POST")
	router.HandleFunc("/api/renders", APIcall(APIgetRenders)).Methods("GET")
	router.HandleFunc("/api/themes", APIcall(APIgetThemes)).Methods("GET")
	router.HandleFunc("/api/health", APIcall(APIgetHealth)).Methods("GET")
	router.Handle("/metrics", metricsHandler()).Methods("GET")
	router.HandleFunc("/api/ws/renders", APIrenderFeed)
	return router
}

func middleware(router http.Handler) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(corsOrigins()),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", "Authorization"}),
		handlers.ExposedHeaders([]string{"X-Chart-Width", "X-Chart-Height"}),
	)
	return handlers.CustomLoggingHandler(os.Stdout, handlers.ProxyHeaders(cors(handlers.CompressHandler(router))), customLogger)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}
	port := getenvOr("PORT", "3000")

	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename: getenvOr("LOGFILE", "./logs/chartsvg.log"),
		MaxSize:  10, // megabytes
		Compress: true,
	}))

	log.Println()
	log.Println("Chart render server is starting up...")
	log.Printf("Built %s, Ver %s (%s) Go %s\n", BuildTime, GitTag, CommitHash, GoVersion)
	log.Println()

	adminHash = os.Getenv("ADMIN_TOKEN_HASH")
	if adminHash == "" {
		log.Println("ADMIN_TOKEN_HASH is empty, delete and purge are disabled")
	}
	storeCharts = getenvOr("STORE_CHARTS", "true") != "false"

	log.Println("Loading themes")
	themesPath := getenvOr("THEMES", "./themes.yaml")
	if err := themes.Load(themesPath); err != nil {
		log.Println("Failed to load themes: ", err)
	}
	watcher, err := themes.Watch(themesPath)
	if err != nil {
		log.Println("Themes will not be reloaded: ", err)
	} else {
		defer watcher.Close()
	}

	chartStore = store.New(getenvOr("CHART_STORAGE", "./chartStorage/"), string(chart.KindLine), string(chart.KindArea))

	if dsn := os.Getenv("DB"); dsn != "" {
		log.Println("Connecting to database")
		dbpool, err = pgxpool.Connect(context.Background(), dsn)
		if err != nil {
			log.Fatal(err)
		}
		defer dbpool.Close()
		if err := db.EnsureSchema(context.Background(), dbpool); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("DB is empty, render log is disabled")
	}

	log.Println("Starting websocket hub")
	renderFeed = newFeedHub()
	go renderFeed.Run()

	log.Println("Adding routes")
	router := newRouter()

	log.Println("Started!")
	log.Panic(http.ListenAndServe(":"+port, middleware(router)))
}
