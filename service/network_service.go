package service

import (
	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
)

// Upline is one hop in a sponsor chain walk. Level 1 is the immediate
// sponsor.
type Upline struct {
	Member *model.Member
	Level  int
}

// NetworkService reads the two link structures over members: the binary
// placement tree and the sponsor chain. It never writes. Broken links
// (missing rows, cycles from corrupted data) terminate traversal instead of
// failing it.
type NetworkService struct {
	members *repository.MemberRepository
}

func NewNetworkService(members *repository.MemberRepository) *NetworkService {
	return &NetworkService{members: members}
}

// SubtreeSize counts the members rooted at id, following both placement
// pointers. A visited set caps the walk at one visit per id, so a cycle in
// corrupted data cannot loop; dangling ids count as zero.
func (s *NetworkService) SubtreeSize(id uint64) int {
	visited := make(map[uint64]struct{})
	stack := []uint64{id}
	count := 0
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}
		m, err := s.members.FindByID(cur)
		if err != nil {
			continue // dangling pointer
		}
		count++
		if m.LeftID != nil {
			stack = append(stack, *m.LeftID)
		}
		if m.RightID != nil {
			stack = append(stack, *m.RightID)
		}
	}
	return count
}

// LegSizes returns the recursive sizes of the member's left and right
// placement subtrees. An unset leg is zero.
func (s *NetworkService) LegSizes(m *model.Member) (left, right int) {
	if m.LeftID != nil {
		left = s.SubtreeSize(*m.LeftID)
	}
	if m.RightID != nil {
		right = s.SubtreeSize(*m.RightID)
	}
	return left, right
}

// UplineChain walks the sponsor pointer from the given member for at most
// maxLevels hops. Missing sponsors and cycles end the walk; the partial
// chain is returned, never an error mid-traversal.
func (s *NetworkService) UplineChain(memberID uint64, maxLevels int) []Upline {
	var chain []Upline
	visited := map[uint64]struct{}{memberID: {}}
	m, err := s.members.FindByID(memberID)
	if err != nil {
		return chain
	}
	for level := 1; level <= maxLevels; level++ {
		if m.SponsorID == nil {
			break
		}
		sid := *m.SponsorID
		if _, seen := visited[sid]; seen {
			break // sponsor loop in corrupted data
		}
		visited[sid] = struct{}{}
		sponsor, err := s.members.FindByID(sid)
		if err != nil {
			break // dangling sponsor id
		}
		chain = append(chain, Upline{Member: sponsor, Level: level})
		m = sponsor
	}
	return chain
}
