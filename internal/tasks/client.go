package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"
)

// Client runs the background queues on their own SQLite database.
type Client struct {
	client  *backlite.Client
	db      *sql.DB
	config  Config
	started atomic.Bool
}

// TasksDBPath returns the task database path that sits next to mainDBPath,
// e.g. lingua.db -> lingua-tasks.db.
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// openTasksDB opens the queue database in WAL mode. The pool covers every
// worker plus request handlers enqueueing at the same time.
func openTasksDB(path string, workers int) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_journal", "WAL")
	params.Set("_timeout", "5000")
	params.Set("_busy_timeout", "5000")

	db, err := sql.Open("sqlite3", path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient creates the queue client and installs its schema. The task
// database lives next to mainDBPath, also when documents are kept in MongoDB.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	db, err := openTasksDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          logrusLogger{entry: log.WithField("component", "tasks")},
	})
	if err == nil {
		err = client.Install()
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to set up task queue: %w", err), db.Close())
	}

	return &Client{client: client, db: db, config: cfg}, nil
}

// Register adds queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start launches the workers and returns. Later calls do nothing.
func (c *Client) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	log.WithField("workers", c.config.Workers).Info("Task queue started")
	c.client.Start(ctx)
}

// Stop waits for running tasks until ctx expires and reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.started.Load() {
		return true
	}

	ok := c.client.Stop(ctx)
	if ok {
		log.Info("Task queue stopped gracefully")
	} else {
		log.Warn("Task queue stopped with timeout (some tasks may not have completed)")
	}
	return ok
}

// Ping checks the task database.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the task database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Enqueue stores tasks for the workers and returns their ids.
func (c *Client) Enqueue(tasks ...backlite.Task) ([]string, error) {
	ids, err := c.client.Add(tasks...).Save()
	if err != nil {
		return nil, err
	}
	log.WithField("task_ids", ids).Debug("Tasks enqueued")
	return ids, nil
}

// logrusLogger implements backlite.Logger.
type logrusLogger struct {
	entry *log.Entry
}

func (l logrusLogger) Info(message string, params ...any) {
	l.entry.WithFields(paramFields(params)).Info(message)
}

func (l logrusLogger) Error(message string, params ...any) {
	l.entry.WithFields(paramFields(params)).Error(message)
}

// paramFields turns backlite's key/value pairs into log fields.
func paramFields(params []any) log.Fields {
	fields := make(log.Fields, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		key, ok := params[i].(string)
		if !ok {
			key = fmt.Sprint(params[i])
		}
		fields[key] = params[i+1]
	}
	if len(params)%2 == 1 {
		fields["extra"] = params[len(params)-1]
	}
	return fields
}
