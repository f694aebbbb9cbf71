package repofake

import (
	"cmp"
	"context"
	"math/rand"
	"slices"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	"gorm.io/gorm"
)

var _ repository.VideoStore = (*VideoRepo)(nil)

type VideoRepo struct {
	s *Store
}

func (r *VideoRepo) Create(_ context.Context, video *model.Video) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	video.ID, video.CreatedAt = r.s.id()
	video.UpdatedAt = video.CreatedAt
	stored := *video
	stored.Owner = model.User{}
	r.s.videos[video.ID] = &stored
	video.Owner = r.s.ownerOf(video.OwnerID)
	return nil
}

func (r *VideoRepo) GetByID(_ context.Context, id uint) (*model.Video, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	v, ok := r.s.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.s.videoCopy(v)
	return &out, nil
}

func (r *VideoRepo) GetByIDs(_ context.Context, ids []uint) ([]model.Video, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	out := []model.Video{}
	for _, id := range ids {
		if v, ok := r.s.videos[id]; ok {
			out = append(out, r.s.videoCopy(v))
		}
	}
	return out, nil
}

func (r *VideoRepo) filter(keep func(v *model.Video) bool) []model.Video {
	out := []model.Video{}
	for _, v := range r.s.videos {
		if keep(v) {
			out = append(out, r.s.videoCopy(v))
		}
	}
	slices.SortFunc(out, func(a, b model.Video) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

func (r *VideoRepo) List(_ context.Context, f repository.VideoFilter) ([]model.Video, int64, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	videos := r.filter(func(v *model.Video) bool {
		if f.PublishedOnly && !v.IsPublished {
			return false
		}
		if f.OwnerID != 0 && v.OwnerID != f.OwnerID {
			return false
		}
		return f.Search == "" || strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Search))
	})

	slices.SortStableFunc(videos, func(a, b model.Video) int {
		var c int
		switch f.SortColumn {
		case "views":
			c = cmp.Compare(a.Views, b.Views)
		case "title":
			c = cmp.Compare(a.Title, b.Title)
		case "duration":
			c = cmp.Compare(a.Duration, b.Duration)
		default:
			c = cmp.Compare(a.ID, b.ID)
		}
		if f.SortDesc {
			return -c
		}
		return c
	})

	total := int64(len(videos))
	return page(videos, f.Limit, f.Offset), total, nil
}

func (r *VideoRepo) update(id uint, apply func(v *model.Video)) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	v, ok := r.s.videos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	apply(v)
	return nil
}

func (r *VideoRepo) UpdateDetails(_ context.Context, id uint, title, description, thumbnail string) error {
	return r.update(id, func(v *model.Video) {
		if title != "" {
			v.Title = title
		}
		if description != "" {
			v.Description = description
		}
		if thumbnail != "" {
			v.Thumbnail = thumbnail
		}
	})
}

func (r *VideoRepo) SetPublished(_ context.Context, id uint, published bool) error {
	return r.update(id, func(v *model.Video) { v.IsPublished = published })
}

func (r *VideoRepo) IncrementViews(_ context.Context, id uint) error {
	return r.update(id, func(v *model.Video) { v.Views++ })
}

func (r *VideoRepo) Delete(_ context.Context, id uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.s.videos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.videos, id)
	for cid, c := range r.s.comments {
		if c.VideoID == id {
			delete(r.s.comments, cid)
		}
	}
	for lid, l := range r.s.likes {
		if l.VideoID != nil && *l.VideoID == id {
			delete(r.s.likes, lid)
		}
	}
	for did, d := range r.s.dislikes {
		if d.VideoID == id {
			delete(r.s.dislikes, did)
		}
	}
	for pid, items := range r.s.playlistItems {
		r.s.playlistItems[pid] = slices.DeleteFunc(items, func(v uint) bool { return v == id })
	}
	return nil
}

func (r *VideoRepo) Random(_ context.Context, limit int) ([]model.Video, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	videos := r.filter(func(v *model.Video) bool { return v.IsPublished })
	rand.Shuffle(len(videos), func(i, j int) { videos[i], videos[j] = videos[j], videos[i] })
	return page(videos, limit, 0), nil
}

func (r *VideoRepo) Trending(_ context.Context, limit int) ([]model.Video, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	videos := r.filter(func(v *model.Video) bool { return v.IsPublished })
	slices.SortStableFunc(videos, func(a, b model.Video) int { return cmp.Compare(b.Views, a.Views) })
	return page(videos, limit, 0), nil
}

func (r *VideoRepo) ByOwners(_ context.Context, ownerIDs []uint) ([]model.Video, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	return r.filter(func(v *model.Video) bool {
		return v.IsPublished && slices.Contains(ownerIDs, v.OwnerID)
	}), nil
}

func (r *VideoRepo) ByTags(_ context.Context, tags []string, limit int) ([]model.Video, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	videos := r.filter(func(v *model.Video) bool {
		if !v.IsPublished {
			return false
		}
		for _, t := range tags {
			if slices.Contains(v.Tags, t) {
				return true
			}
		}
		return false
	})
	slices.SortStableFunc(videos, func(a, b model.Video) int { return cmp.Compare(b.Views, a.Views) })
	return page(videos, limit, 0), nil
}

func (r *VideoRepo) Search(_ context.Context, query string, limit int) ([]model.Video, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	q := strings.ToLower(query)
	videos := r.filter(func(v *model.Video) bool {
		return v.IsPublished && strings.Contains(strings.ToLower(v.Title), q)
	})
	slices.SortStableFunc(videos, func(a, b model.Video) int { return cmp.Compare(b.Views, a.Views) })
	return page(videos, limit, 0), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
