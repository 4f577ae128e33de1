package db

import (
	"github.com/gocql/gocql"
	"go.uber.org/atomic"
)

// localDcPolicy routes queries round robin across all hosts until the first host is added, then
// pins itself to that host's data center.
type localDcPolicy struct {
	child      atomic.Value
	localDcSet atomic.Bool
}

type childPolicy struct {
	policy gocql.HostSelectionPolicy
}

func NewDefaultHostSelectionPolicy() gocql.HostSelectionPolicy {
	return gocql.TokenAwareHostPolicy(newLocalDcPolicy(), gocql.ShuffleReplicas())
}

func newLocalDcPolicy() *localDcPolicy {
	p := &localDcPolicy{}
	p.child.Store(childPolicy{gocql.RoundRobinHostPolicy()})
	return p
}

func (p *localDcPolicy) current() gocql.HostSelectionPolicy {
	return p.child.Load().(childPolicy).policy
}

func (p *localDcPolicy) AddHost(host *gocql.HostInfo) {
	if p.localDcSet.CompareAndSwap(false, true) {
		policy := gocql.DCAwareRoundRobinPolicy(host.DataCenter())
		p.child.Store(childPolicy{policy})
		policy.AddHost(host)
		return
	}
	p.current().AddHost(host)
}

func (p *localDcPolicy) RemoveHost(host *gocql.HostInfo) { p.current().RemoveHost(host) }
func (p *localDcPolicy) HostUp(host *gocql.HostInfo)     { p.current().HostUp(host) }
func (p *localDcPolicy) HostDown(host *gocql.HostInfo)   { p.current().HostDown(host) }
func (p *localDcPolicy) SetPartitioner(partitioner string) {
	p.current().SetPartitioner(partitioner)
}
func (p *localDcPolicy) KeyspaceChanged(e gocql.KeyspaceUpdateEvent) {
	p.current().KeyspaceChanged(e)
}

// Init is a no-op, the token aware parent does not initialize its fallback
func (p *localDcPolicy) Init(*gocql.Session) {}

func (p *localDcPolicy) IsLocal(host *gocql.HostInfo) bool {
	return p.current().IsLocal(host)
}

func (p *localDcPolicy) Pick(query gocql.ExecutableQuery) gocql.NextHost {
	return p.current().Pick(query)
}
