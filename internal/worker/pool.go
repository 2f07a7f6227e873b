// Package worker runs background jobs on a fixed pool so request handlers
// never block on best-effort work like persisting assessment history.
package worker

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is a unit of background work.
type Job interface {
	Execute() error
	ID() string
}

// Worker pulls jobs from its own channel and registers that channel with the
// shared pool whenever it is free.
type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Quit       chan bool
	Wg         *sync.WaitGroup
	Log        *logrus.Logger
}

// NewWorker creates a Worker bound to the shared worker pool.
func NewWorker(id int, workerPool chan chan Job, wg *sync.WaitGroup, log *logrus.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Quit:       make(chan bool),
		Wg:         wg,
		Log:        log,
	}
}

// Start makes the Worker listen for jobs on its JobChannel.
func (w Worker) Start() {
	w.Wg.Add(1)
	go func() {
		defer w.Wg.Done()
		for {
			// Advertise availability to the dispatcher.
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Log.WithFields(logrus.Fields{"worker": w.ID, "job": job.ID()}).Info("Worker started job")
				if err := job.Execute(); err != nil {
					w.Log.WithFields(logrus.Fields{"worker": w.ID, "job": job.ID(), "error": err.Error()}).Error("Job failed")
				} else {
					w.Log.WithFields(logrus.Fields{"worker": w.ID, "job": job.ID()}).Info("Worker finished job")
				}
			case <-w.Quit:
				w.Log.WithField("worker", w.ID).Info("Worker stopping")
				return
			}
		}
	}()
}

// Stop signals the worker to stop after its current job.
func (w Worker) Stop() {
	go func() {
		w.Quit <- true
	}()
}

// Dispatcher owns the job queue and hands queued jobs to free workers.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job
	JobQueue   chan Job
	Workers    []Worker
	Wg         sync.WaitGroup
	Quit       chan bool
	Log        *logrus.Logger
}

// NewDispatcher creates a Dispatcher with a bounded job queue.
func NewDispatcher(maxWorkers, jobQueueSize int, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		Quit:       make(chan bool),
		Log:        log,
	}
}

// Run starts the workers and the dispatch loop.
func (d *Dispatcher) Run() {
	d.Log.WithField("workers", d.MaxWorkers).Info("Dispatcher starting")
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(i, d.WorkerPool, &d.Wg, d.Log)
		d.Workers = append(d.Workers, worker)
		worker.Start()
	}
	go d.dispatch()
}

// dispatch moves jobs from the queue to whichever worker frees up first.
func (d *Dispatcher) dispatch() {
	for {
		select {
		case job := <-d.JobQueue:
			go func(job Job) {
				jobChannel := <-d.WorkerPool
				jobChannel <- job
			}(job)
		case <-d.Quit:
			d.Log.Info("Dispatcher stopping dispatch loop")
			return
		}
	}
}

// SubmitJob queues a job without blocking. It reports false when the queue
// is full and the job was dropped.
func (d *Dispatcher) SubmitJob(job Job) bool {
	select {
	case d.JobQueue <- job:
		return true
	default:
		d.Log.WithField("job", job.ID()).Warn("Job queue full, dropping job")
		return false
	}
}

// Stop shuts down the dispatch loop, then waits for every worker to finish
// its current job.
func (d *Dispatcher) Stop() {
	d.Log.Info("Dispatcher shutting down")
	d.Quit <- true
	for _, worker := range d.Workers {
		worker.Stop()
	}
	d.Wg.Wait()
	d.Log.Info("Dispatcher shutdown complete")
}
