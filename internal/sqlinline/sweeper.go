package sqlinline

// QReapStalePodcasts fails podcasts stuck in 'processing' beyond the TTL
// and refunds the credits their admission recorded, in one statement so a
// crash between the two cannot strand a refund.
const QReapStalePodcasts = `--sql eb6b7af3-c527-4ab9-957f-7b99e2776b07
with reaped as (
  update podcasts
  set status = 'failed', updated_at = now()
  where status = 'processing'
    and user_id is not null
    and created_at < now() - ($1::int * interval '1 minute')
  returning job_id, user_id, credits_spent
),
refunded as (
  update user_profiles p
  set credits = p.credits + r.total, updated_at = now()
  from (
    select user_id, sum(credits_spent) as total
    from reaped
    group by user_id
  ) r
  where p.user_id = r.user_id
)
select count(*) from reaped;
`
