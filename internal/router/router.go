package router

import (
	"net/http"
	"time"

	_ "pet-health-chat/docs"
	"pet-health-chat/internal/adapters/sessions/lru"
	mem "pet-health-chat/internal/adapters/storage/memory"
	"pet-health-chat/internal/domain/chat"
	"pet-health-chat/internal/domain/pets"
	"pet-health-chat/internal/middleware"
	"pet-health-chat/internal/platform/logger"
	"pet-health-chat/internal/platform/ratelimit"
	"pet-health-chat/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si no viene, in-memory.
	PetRepo pets.Repository

	// ChatBackend nil => /chat no se monta.
	ChatBackend chat.Backend
	Sessions    chat.SessionStore // default: LRU con defaults
	Limiter     chat.Limiter      // default: 60/min global
	Prompts     chat.Prompts
	AITimeout   time.Duration

	Logger logger.Logger
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	petRepo := opts.PetRepo
	if petRepo == nil {
		petRepo = mem.NewPetRepo()
	}
	petsSvc := pets.NewService(petRepo)

	var chatMgr *chat.Manager
	if opts.ChatBackend != nil {
		sessions := opts.Sessions
		if sessions == nil {
			store, err := lru.New(lru.DefaultMaxEntries, lru.DefaultTTL)
			if err != nil {
				return nil, err
			}
			sessions = store
		}
		limiter := opts.Limiter
		if limiter == nil {
			limiter = ratelimit.New(ratelimit.DefaultPerMinute)
		}

		chatMgr = chat.NewManager(chat.Options{
			Backend:   opts.ChatBackend,
			Store:     sessions,
			Limiter:   limiter,
			Prompts:   opts.Prompts,
			Logger:    log.With(map[string]any{"component": "chat"}),
			AITimeout: opts.AITimeout,
		})

		// La conversación de una mascota borrada no debe sobrevivirla.
		petsSvc.OnDelete(chatMgr.Forget)
	} else {
		log.Warn("no ai backend configured, /chat disabled", nil)
	}

	// Rutas por módulo; todo lo de negocio requiere identidad.
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)

		pets.RegisterRoutes(pr, petsSvc, log)
		if chatMgr != nil {
			chat.RegisterRoutes(pr, chatMgr, petsSvc, log)
		}
	})

	return r, nil
}
