package update

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CanInstall 判斷實體是否應出現在可安裝列表中
// 必須支持安裝；狀態為 on，或者 showSkipped 時帶跳過記錄的實體也算
func CanInstall(e Entity, showSkipped bool) bool {
	if !e.Installable() {
		return false
	}
	return e.State == StateOn || (showSkipped && e.HasSkippedVersion())
}

// FilterUpdateEntities 取出所有 update 實體並排序
func FilterUpdateEntities(s *Snapshot, lang language.Tag) []Entity {
	var out []Entity
	for _, e := range s.Entities() {
		if e.Domain() == Domain {
			out = append(out, e)
		}
	}
	sortEntities(out, lang)
	return out
}

// FilterWithInstall 可安裝的 update 實體 (有序)
func FilterWithInstall(s *Snapshot, showSkipped bool, lang language.Tag) []Entity {
	all := FilterUpdateEntities(s, lang)
	out := make([]Entity, 0, len(all))
	for _, e := range all {
		if CanInstall(e, showSkipped) {
			out = append(out, e)
		}
	}
	return out
}

// EntityIDs 提取實體 ID
func EntityIDs(entities []Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.EntityID)
	}
	return ids
}

// 系統組件固定置頂：Core > OS > Supervisor
func rank(e Entity) int {
	switch e.Attributes.Title {
	case TitleCore:
		return 0
	case TitleOS:
		return 1
	case TitleSupervisor:
		return 2
	default:
		return 3
	}
}

func sortName(e Entity) string {
	if e.Attributes.Title != "" {
		return e.Attributes.Title
	}
	return e.Attributes.FriendlyName
}

func sortEntities(entities []Entity, lang language.Tag) {
	// Collator 非併發安全，每次排序單獨創建
	c := collate.New(lang, collate.IgnoreCase)

	sort.SliceStable(entities, func(i, j int) bool {
		ri, rj := rank(entities[i]), rank(entities[j])
		if ri != rj {
			return ri < rj
		}
		if cmp := c.CompareString(sortName(entities[i]), sortName(entities[j])); cmp != 0 {
			return cmp < 0
		}
		return entities[i].EntityID < entities[j].EntityID
	})
}
