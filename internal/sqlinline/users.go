package sqlinline

const QSelectProfile = `--sql 51460fa7-fb40-41f8-9def-22a90df7e228
select user_id, credits, created_at, updated_at
from user_profiles
where user_id = $1::uuid;
`
