package sqlinline

// QReserveCreditsAndCreatePodcast is the atomic admission step: one
// statement that locks the profile row, checks the balance, debits it and
// inserts the podcast row already in 'processing'. The database function
// raises 'insufficient_credits' when the balance cannot cover the cost;
// composing the check and the debit from the application tier would
// reopen a double-spend race under concurrent submissions.
const QReserveCreditsAndCreatePodcast = `--sql 4bb1f9e5-45fb-4447-9308-cf7258353c4a
select job_id, remaining_credits
from fn_reserve_credits_and_create_podcast(
  $1::uuid,  -- user_id
  $2::uuid,  -- job_id
  $3::text,  -- appearance_mode
  $4::text,  -- ethnicity
  $5::text,  -- hair
  $6::text,  -- image_url
  $7::text,  -- content_mode
  $8::text,  -- topic
  $9::text,  -- script
  $10::text, -- audio_url
  $11::text, -- video_resolution
  $12::text, -- aspect_ratio
  $13::int   -- credit_cost
);
`

// QSelectActivePodcast backs the best-effort in-flight limit check.
const QSelectActivePodcast = `--sql 8984c90d-3c5c-485d-bf58-446a03cbe9f7
select job_id
from podcasts
where user_id = $1::uuid and status = 'processing'
limit 1;
`

const QSelectPodcastForUser = `--sql 3c53cc00-8c39-4fb8-a77c-aa0f3308446a
select job_id, user_id, appearance_mode, coalesce(ethnicity, ''), coalesce(hair, ''),
       coalesce(image_url, ''), content_mode, coalesce(topic, ''), coalesce(script, ''),
       coalesce(audio_url, ''), video_resolution, aspect_ratio, credits_spent,
       status, coalesce(video_url, ''), created_at, updated_at
from podcasts
where job_id = $1::uuid and user_id = $2::uuid;
`

const QListPodcastsForUser = `--sql 2c0ae5de-98bc-4977-8be4-59a3f7a8efe0
select job_id, appearance_mode, content_mode, coalesce(topic, ''), video_resolution,
       aspect_ratio, credits_spent, status, coalesce(video_url, ''), created_at, updated_at
from podcasts
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`

// QFinalizePodcast is the terminal write from the completion callback.
// It matches by job id alone and overwrites unconditionally; the worker
// calls back at most once per job in normal operation, so a duplicate
// delivery rewrites the same terminal fields.
const QFinalizePodcast = `--sql 9df470ae-0370-42f5-88ba-e555b35335b3
update podcasts
set status = $2::text,
    video_url = nullif($3::text, ''),
    updated_at = now()
where job_id = $1::uuid;
`
