package update

import "sort"

// Snapshot 某一時刻的實體狀態集合，不可變
// 每次變化都生成新的 *Snapshot，指針本身即可作為緩存鍵
type Snapshot struct {
	entities map[string]Entity
}

// NewSnapshot 從實體列表構建快照，重複 ID 以後者為準
func NewSnapshot(entities ...Entity) *Snapshot {
	m := make(map[string]Entity, len(entities))
	for _, e := range entities {
		m[e.EntityID] = e
	}
	return &Snapshot{entities: m}
}

// Len 實體數量
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entities)
}

// Get 按 ID 查找
func (s *Snapshot) Get(entityID string) (Entity, bool) {
	if s == nil {
		return Entity{}, false
	}
	e, ok := s.entities[entityID]
	return e, ok
}

// Entities 返回按實體 ID 排序的副本
func (s *Snapshot) Entities() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

// With 寫時複製：返回包含 e 的新快照
func (s *Snapshot) With(e Entity) *Snapshot {
	next := s.clone(1)
	next.entities[e.EntityID] = e
	return next
}

// Without 寫時複製：返回刪除 entityID 後的新快照
func (s *Snapshot) Without(entityID string) *Snapshot {
	if _, ok := s.Get(entityID); !ok {
		return s
	}
	next := s.clone(0)
	delete(next.entities, entityID)
	return next
}

func (s *Snapshot) clone(extra int) *Snapshot {
	m := make(map[string]Entity, s.Len()+extra)
	if s != nil {
		for k, v := range s.entities {
			m[k] = v
		}
	}
	return &Snapshot{entities: m}
}
