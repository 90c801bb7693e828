// Package inmemdb provides mutex-guarded in-memory repositories used by the
// test suites and the dev bootstrap.
package inmemdb

import (
	"sync"

	"github.com/forgelabs/anvil/core/channel"
	"github.com/forgelabs/anvil/core/curriculum"
	"github.com/forgelabs/anvil/core/notification"
	"github.com/forgelabs/anvil/core/problem"
	"github.com/forgelabs/anvil/core/resource"
	"github.com/forgelabs/anvil/core/scoring"
	"github.com/forgelabs/anvil/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	problemTable struct {
		mutex sync.RWMutex
		table map[string]*problem.Problem
	}

	resourceTable struct {
		mutex sync.RWMutex
		table map[string]*resource.Resource
	}

	channelTable struct {
		mutex sync.RWMutex
		table map[string]*channel.Channel
	}

	notificationTable struct {
		mutex sync.RWMutex
		table map[string]*notification.Notification
	}

	curriculumTables struct {
		mutex   sync.RWMutex
		phases  map[string]*curriculum.Phase
		weeks   map[string]*curriculum.Week
		lessons map[string]*curriculum.Lesson
	}

	scoringTable struct {
		mutex sync.RWMutex
		table map[string]*scoring.Profile // by user ID
	}

	DB struct {
		user         *userTable
		problem      *problemTable
		resource     *resourceTable
		channel      *channelTable
		notification *notificationTable
		curriculum   *curriculumTables
		scoring      *scoringTable
	}
)

// Reset drops all rows; test helper.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.mutex.Unlock()

	db.problem.mutex.Lock()
	db.problem.table = make(map[string]*problem.Problem)
	db.problem.mutex.Unlock()

	db.resource.mutex.Lock()
	db.resource.table = make(map[string]*resource.Resource)
	db.resource.mutex.Unlock()

	db.channel.mutex.Lock()
	db.channel.table = make(map[string]*channel.Channel)
	db.channel.mutex.Unlock()

	db.notification.mutex.Lock()
	db.notification.table = make(map[string]*notification.Notification)
	db.notification.mutex.Unlock()

	db.curriculum.mutex.Lock()
	db.curriculum.phases = make(map[string]*curriculum.Phase)
	db.curriculum.weeks = make(map[string]*curriculum.Week)
	db.curriculum.lessons = make(map[string]*curriculum.Lesson)
	db.curriculum.mutex.Unlock()

	db.scoring.mutex.Lock()
	db.scoring.table = make(map[string]*scoring.Profile)
	db.scoring.mutex.Unlock()
}

func NewDB() *DB {
	return &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		problem:      &problemTable{table: make(map[string]*problem.Problem)},
		resource:     &resourceTable{table: make(map[string]*resource.Resource)},
		channel:      &channelTable{table: make(map[string]*channel.Channel)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
		curriculum: &curriculumTables{
			phases:  make(map[string]*curriculum.Phase),
			weeks:   make(map[string]*curriculum.Week),
			lessons: make(map[string]*curriculum.Lesson),
		},
		scoring: &scoringTable{table: make(map[string]*scoring.Profile)},
	}
}
